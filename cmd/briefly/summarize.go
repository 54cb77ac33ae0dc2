package main

import (
	"fmt"

	"github.com/fwojciec/briefly"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	article, summary, err := deps.Pipeline.Summarize(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return err
	}

	if article.Title != "" {
		fmt.Fprintf(deps.Stdout, "%s\n\n", article.Title)
	}
	fmt.Fprintln(deps.Stdout, summary.Result)
	if c.Thoughts && summary.Thoughts != "" {
		fmt.Fprintf(deps.Stderr, "\n%s\n", summary.Thoughts)
	}
	return nil
}

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	_, answer, err := deps.Pipeline.Ask(deps.Ctx, c.URL, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Result)
	if len(answer.Documents) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, d := range answer.Documents {
			fmt.Fprintf(deps.Stdout, "  - %s\n", d)
		}
	}
	return nil
}
