package cli

import (
	"errors"
	"log/slog"

	"github.com/getmockd/reqmatch/pkg/config"
	"github.com/getmockd/reqmatch/pkg/matching"
	"github.com/getmockd/reqmatch/pkg/mock"
	"github.com/getmockd/reqmatch/pkg/router"
)

// loadRouter loads every expectation named by files (or the environment)
// and registers it with a new router.
func loadRouter(files []string, log *slog.Logger, opts ...router.Option) (*router.Router, error) {
	pats, err := patterns(files)
	if err != nil {
		return nil, err
	}

	exps, err := config.Load(pats, "")
	if err != nil {
		return nil, err
	}
	if len(exps) == 0 {
		return nil, errors.New("no expectations found")
	}

	r := router.New(append([]router.Option{router.WithLogger(log)}, opts...)...)
	if err := r.RegisterAll(exps); err != nil {
		return nil, err
	}
	return r, nil
}

// expectationSummary is the listing form of a registered expectation.
type expectationSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Priority int             `json:"priority"`
	Enabled  bool            `json:"enabled"`
	Matchers int             `json:"matchers"`
	Kinds    []matching.Kind `json:"kinds"`
}

func summarize(e *mock.Expectation) expectationSummary {
	s := expectationSummary{
		ID:       e.ID,
		Name:     e.Name,
		Priority: e.Priority,
		Enabled:  e.IsEnabled(),
		Kinds:    []matching.Kind{},
	}
	if c := e.Matcher(); c != nil {
		s.Matchers = c.Len()
		if kinds := c.Kinds(); kinds != nil {
			s.Kinds = kinds
		}
	}
	return s
}
