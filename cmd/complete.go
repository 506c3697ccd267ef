package cmd

import (
	"github.com/kirilldublin/valutatrade"
	"github.com/kirilldublin/valutatrade/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// codes completes currency codes from the active catalog. The catalog is
// only loaded when the shell actually asks for a completion.
var codes = complete.PredictFunc(func(prefix string) []string {
	cfg, err := valutatrade.LoadConfig()
	if err != nil {
		return nil
	}
	catalog, err := valutatrade.NewStore(cfg).LoadCatalog()
	if err != nil {
		return nil
	}
	return catalog.Codes()
})

// pairs completes FROM_TO pairs from the rate cache.
var pairs = complete.PredictFunc(func(prefix string) []string {
	cfg, err := valutatrade.LoadConfig()
	if err != nil {
		return nil
	}
	cache, err := valutatrade.NewStore(cfg).LoadRates()
	if err != nil {
		return nil
	}
	var list []string
	for _, r := range cache.Rates() {
		list = append(list, r.Pair())
	}
	return list
})

// topics completes documentation topic names.
var topics = complete.PredictFunc(func(prefix string) []string {
	names, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	return names
})

// Complete installs shell completion for the whole command tree. It must run
// before flag parsing: in completion mode it answers the shell and exits.
func Complete(name string) {
	account := map[string]complete.Predictor{"u": predict.Something, "p": predict.Something}
	trade := map[string]complete.Predictor{"c": codes, "a": predict.Something}
	source := predict.Set{"coingecko", "exchangerate"}

	cmd := &complete.Command{
		Sub: map[string]*complete.Command{
			"register":   {Flags: account},
			"login":      {Flags: account},
			"logout":     {},
			"buy":        {Flags: trade},
			"sell":       {Flags: trade},
			"deposit":    {Flags: trade},
			"withdraw":   {Flags: trade},
			"portfolio":  {Flags: map[string]complete.Predictor{"base": codes}},
			"rate":       {Args: codes},
			"rates":      {Flags: map[string]complete.Predictor{"c": codes, "base": codes, "top": predict.Something}},
			"update":     {Flags: map[string]complete.Predictor{"source": source}},
			"watch":      {Flags: map[string]complete.Predictor{"interval": predict.Something, "source": source}},
			"history":    {Flags: map[string]complete.Predictor{"since": predict.Something, "png": predict.Files("*.png")}, Args: pairs},
			"currencies": {},
			"topic":      {Args: topics},
			"shell":      {},
			"assist":     {},
			"help":       {},
			"flags":      {},
			"commands":   {},
		},
	}
	cmd.Complete(name)
}
