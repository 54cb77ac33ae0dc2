package main

import "fmt"

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Addr
	}
	fmt.Fprintf(deps.Stderr, "Listening on http://%s\n", addr)
	return deps.Server.ListenAndServe(deps.Ctx, addr)
}
