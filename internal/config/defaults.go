package config

const (
	defaultLogDir             = "~/.local/share/reel/logs"
	defaultHistoryDB          = "~/.local/share/reel/history.db"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultProbeTimeoutMS     = 200
	defaultCancelGraceSeconds = 3
	defaultEventBuffer        = 64
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Conversion: Conversion{
			FFmpegBinary:       defaultFFmpegBinary,
			FFprobeBinary:      defaultFFprobeBinary,
			ProbeTimeoutMS:     defaultProbeTimeoutMS,
			CancelGraceSeconds: defaultCancelGraceSeconds,
			EventBuffer:        defaultEventBuffer,
		},
		UI: UI{
			StartDir: ".",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
