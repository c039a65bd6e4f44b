package config

const (
	defaultPatientsDir       = "T1_CAT12"
	defaultControlsDir       = "T1_CAT12_Kontrollen"
	defaultOutputSubdir      = "for_brainage"
	defaultLogDir            = "~/.local/share/brainprep/logs"
	defaultRelease           = "_CAT12.9"
	defaultSexConvention     = "0=f,1=m"
	defaultHeader            = "auto"
	defaultFallbackDelimiter = ";"
	defaultMinAge            = 0
	defaultMaxAge            = 120
	defaultIDColumn          = 1
	defaultAgeColumn         = 3
	defaultSexColumn         = 4
	defaultFakeSeed          = 42
	defaultFakeMeanAge       = 81.0
	defaultFakeStdAge        = 3.0
	defaultFakeMinAge        = 50
	defaultFakeMaxAge        = 100
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PatientsDir: defaultPatientsDir,
			ControlsDir: defaultControlsDir,
			LogDir:      defaultLogDir,
		},
		Labels: Labels{
			IDColumn:          defaultIDColumn,
			AgeColumn:         defaultAgeColumn,
			SexColumn:         defaultSexColumn,
			SexConvention:     defaultSexConvention,
			Header:            defaultHeader,
			FallbackDelimiter: defaultFallbackDelimiter,
			MinAge:            defaultMinAge,
			MaxAge:            defaultMaxAge,
		},
		Output: Output{
			Release:  defaultRelease,
			Manifest: true,
		},
		FakeLabels: FakeLabels{
			Seed:    defaultFakeSeed,
			MeanAge: defaultFakeMeanAge,
			StdAge:  defaultFakeStdAge,
			MinAge:  defaultFakeMinAge,
			MaxAge:  defaultFakeMaxAge,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
