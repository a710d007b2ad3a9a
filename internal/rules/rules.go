// Package rules implements the business-rule pipeline run against a
// candidate user before persistence. Rules are read-only: they may query the
// repository but never mutate the candidate or the store.
package rules

import (
	"context"

	"github.com/harborbank/user-service/internal/models"
	"github.com/harborbank/user-service/internal/outcome"
)

// Rule is a single business check over a candidate user.
type Rule interface {
	Check(ctx context.Context, candidate *models.User) outcome.Outcome[outcome.Void]
}

// Pipeline is an ordered, statically assembled sequence of rules.
type Pipeline []Rule

// Run evaluates rules top to bottom and stops at the first failure, which is
// returned verbatim. A candidate failing several rules only ever reports the
// first.
func (p Pipeline) Run(ctx context.Context, candidate *models.User) outcome.Outcome[outcome.Void] {
	for _, rule := range p {
		if result := rule.Check(ctx, candidate); !result.Success() {
			return result
		}
	}
	return outcome.OK(outcome.Void{})
}
