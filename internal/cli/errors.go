package cli

import (
	"fmt"

	"checklist-cli/internal/remote"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type unreachableError struct {
	url string
	err error
}

func (e unreachableError) Error() string {
	return fmt.Sprintf("task server unreachable at %s: %v", e.url, e.err)
}

func (e unreachableError) Unwrap() error { return e.err }

// remoteErr turns client errors into messages naming what was missing.
func remoteErr(c *remote.Client, kind, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case remote.IsNotFound(err):
		return errNotFound(kind, id)
	case remote.Kind(err) == "transport":
		return unreachableError{url: c.BaseURL(), err: err}
	default:
		return err
	}
}
