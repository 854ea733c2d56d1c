package config

import "os"

// ApplyEnvConfig applies QRFRAME_* environment variables. They override the
// config file and are overridden by changed flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("level", os.Getenv("QRFRAME_LEVEL"), &cfg.Level)
	s.setString("render", os.Getenv("QRFRAME_RENDER"), &cfg.Render)
	s.setString("prefix", os.Getenv("QRFRAME_PREFIX"), &cfg.Prefix)
	s.setString("layout", os.Getenv("QRFRAME_LAYOUT"), &cfg.Layout)
	s.setString("log-path", os.Getenv("QRFRAME_LOG_PATH"), &cfg.LogPath)
	s.setString("log-mode", os.Getenv("QRFRAME_LOG_MODE"), &cfg.LogMode)
	s.setString("display", os.Getenv("QRFRAME_DISPLAY"), &cfg.Display)
	s.setString("output", os.Getenv("QRFRAME_OUTPUT"), &cfg.Output)
	s.setString("listen", os.Getenv("QRFRAME_LISTEN"), &cfg.Listen)
	s.setString("log-level", os.Getenv("QRFRAME_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("interval", os.Getenv("QRFRAME_INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("start-delay", os.Getenv("QRFRAME_START_DELAY"), &cfg.StartDelay); err != nil {
		return err
	}

	for _, v := range []struct {
		flag, env string
		dst       *int
	}{
		{"border", "QRFRAME_BORDER", &cfg.Border},
		{"scale", "QRFRAME_SCALE", &cfg.Scale},
		{"side", "QRFRAME_SIDE", &cfg.Side},
		{"max-frames", "QRFRAME_MAX_FRAMES", &cfg.MaxFrames},
		{"flush-every", "QRFRAME_FLUSH_EVERY", &cfg.FlushEvery},
	} {
		if err := s.setIntFromString(v.flag, os.Getenv(v.env), v.dst); err != nil {
			return err
		}
	}

	s.setBoolFromString("boost", os.Getenv("QRFRAME_BOOST"), &cfg.Boost)
	s.setBoolFromString("no-color", os.Getenv("QRFRAME_NO_COLOR"), &cfg.NoColor)
	s.setBoolFromString("watch", os.Getenv("QRFRAME_WATCH"), &cfg.Watch)

	return nil
}
