package config

const (
	defaultLogDir         = "~/.local/share/trim-streams/logs"
	defaultHistoryDB      = "~/.local/share/trim-streams/history.db"
	defaultOutputDirName  = "processed"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultMinMemoryGiB   = 4
	defaultMinFreeDiskGiB = 1
)

func defaultAudioLanguages() []string {
	return []string{"eng", "en", "kor", "jpn", "chi", "zho", "cmn"}
}

func defaultSubtitleLanguages() []string {
	return []string{"eng", "en"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Languages: Languages{
			Audio:    defaultAudioLanguages(),
			Subtitle: defaultSubtitleLanguages(),
		},
		Processing: Processing{
			CopyStreams:   true,
			VerifyOutput:  true,
			OutputDirName: defaultOutputDirName,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Resources: Resources{
			MinMemoryGiB:   defaultMinMemoryGiB,
			MinFreeDiskGiB: defaultMinFreeDiskGiB,
		},
	}
}
