package cmd

import (
	"path/filepath"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var units = predict.Set{"days", "weeks", "months", "years"}

// portfolios predicts the names of the portfolios in dir.
func portfolios(dir string) complete.PredictFunc {
	return func(prefix string) []string {
		paths, _ := filepath.Glob(filepath.Join(dir, "*"+folio.LogExt))
		var names []string
		for _, p := range paths {
			if name := strings.TrimSuffix(filepath.Base(p), folio.LogExt); strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
		return names
	}
}

// Completion describes the command line for shell completion.
func Completion(dataDir string) *complete.Command {
	names := portfolios(dataDir)
	sampling := func(flags map[string]complete.Predictor) map[string]complete.Predictor {
		flags["u"] = units
		flags["n"] = predict.Something
		flags["e"] = predict.Something
		flags["l"] = predict.Something
		return flags
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"list":        {},
			"create":      {Args: predict.Something},
			"add":         {Flags: map[string]complete.Predictor{"p": names, "t": predict.Something, "q": predict.Something, "d": predict.Something}},
			"flip":        {Args: names},
			"value":       {Flags: map[string]complete.Predictor{"p": names, "d": predict.Something}},
			"basis":       {Flags: map[string]complete.Predictor{"p": names, "d": predict.Something}},
			"composition": {Flags: map[string]complete.Predictor{"p": names}},
			"prices":      {Flags: sampling(map[string]complete.Predictor{"t": predict.Something, "open": predict.Nothing})},
			"values":      {Flags: sampling(map[string]complete.Predictor{"p": names})},
			"dca": {Flags: map[string]complete.Predictor{
				"w": predict.Something, "s": predict.Something, "u": units,
				"l": predict.Something, "r": predict.Something, "d": predict.Something,
			}},
			"ipo":    {Args: predict.Something},
			"unit":   {Flags: map[string]complete.Predictor{"s": predict.Something, "e": predict.Something, "min": predict.Something, "max": predict.Something}},
			"search": {Args: predict.Something},
			"topic":  {Args: predict.Set(docs.Topics())},
			"help":   {Args: predict.Set{"list", "create", "add", "flip", "value", "basis", "composition", "prices", "values", "dca", "ipo", "unit", "search", "topic"}},
		},
		Flags: map[string]complete.Predictor{
			"raw":     predict.Nothing,
			"metrics": predict.Nothing,
		},
	}
}
