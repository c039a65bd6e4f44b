package pipeline

import (
	"fmt"

	"brainprep/internal/config"
	"brainprep/internal/labels"
)

// LabelOptions translates the config's label section into parser options.
// Spelling problems in the config surface as configuration errors here,
// before any source I/O.
func LabelOptions(cfg *config.Config) (labels.Options, error) {
	convention, err := labels.ParseConvention(cfg.Labels.SexConvention)
	if err != nil {
		return labels.Options{}, Wrap(ErrConfiguration, "labels", "read sex convention", "", err)
	}
	header, err := labels.ParseHeaderMode(cfg.Labels.Header)
	if err != nil {
		return labels.Options{}, Wrap(ErrConfiguration, "labels", "read header mode", "", err)
	}

	var columns labels.ColumnSpec
	if len(cfg.Labels.IDColumnNames) > 0 {
		columns = labels.ColumnsByName(cfg.Labels.IDColumnNames, cfg.Labels.AgeColumnNames, cfg.Labels.SexColumnNames)
	} else {
		columns = labels.ColumnsByIndex(cfg.Labels.IDColumn, cfg.Labels.AgeColumn, cfg.Labels.SexColumn)
	}

	fallback := ';'
	if runes := []rune(cfg.Labels.FallbackDelimiter); len(runes) == 1 {
		fallback = runes[0]
	} else if cfg.Labels.FallbackDelimiter != "" {
		return labels.Options{}, Wrap(ErrConfiguration, "labels", "read fallback delimiter",
			fmt.Sprintf("%q is not a single character", cfg.Labels.FallbackDelimiter), nil)
	}

	return labels.Options{
		Columns:           columns,
		Convention:        convention,
		Header:            header,
		FallbackDelimiter: fallback,
		MinAge:            cfg.Labels.MinAge,
		MaxAge:            cfg.Labels.MaxAge,
	}, nil
}
