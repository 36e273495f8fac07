// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/twist/twistconfig/internal/issue"
	"github.com/twist/twistconfig/pkg/document"
	"github.com/twist/twistconfig/pkg/library"
	"github.com/twist/twistconfig/pkg/twistconfig"
)

// classifyError turns errors from a configuration build into an
// ActionableError linked to the matching issue catalog entry. Errors that
// already carry an issue are returned unchanged.
func classifyError(err error) error {
	if err == nil || issue.IdOf(err) != 0 {
		return err
	}

	var (
		conflict *library.VersionConflictError
		resErr   *library.ResolutionError
		manErr   *library.ManifestParseError
		parseErr *document.ConfigParseError
		optErr   *twistconfig.UnknownOptionError
	)

	ctx := issue.NewErrorContext().Wrap(err)

	switch {
	case errors.As(err, &conflict):
		ctx.WithOperation("load library").
			WithResource(conflict.Library.Name()).
			WithIssue(issue.VersionConflictId).
			WithSuggestion(fmt.Sprintf("Make every dependent accept %s", conflict.Newest())).
			WithSuggestion(fmt.Sprintf("Run 'npm ls %s' to see who installs each version", conflict.Library.Name()))
	case errors.As(err, &resErr):
		ctx.WithOperation("resolve library").
			WithResource(resErr.Library).
			WithIssue(issue.LibraryNotFoundId).
			WithSuggestion(fmt.Sprintf("Run 'npm install %s'", resErr.Library)).
			WithSuggestion("Lookups started in " + resErr.FromDir)
	case errors.As(err, &manErr):
		id := issue.ManifestParseErrorId
		if errors.Is(err, os.ErrPermission) {
			id = issue.PermissionDeniedId
		}
		ctx.WithOperation("read manifest").
			WithResource(manErr.Path).
			WithIssue(id)
	case errors.As(err, &parseErr):
		id := issue.ConfigParseErrorId
		if filepath.Base(parseErr.Path) == document.DynamicFileName {
			id = issue.DynamicConfigFailedId
		}
		if errors.Is(err, os.ErrPermission) {
			id = issue.PermissionDeniedId
		}
		ctx.WithOperation("parse configuration").
			WithResource(parseErr.Path).
			WithIssue(id)
	case errors.As(err, &optErr):
		ctx.WithOperation("set option").
			WithResource(optErr.Name).
			WithIssue(issue.UnknownOptionId).
			WithSuggestion("Known options: " + strings.Join(twistconfig.OptionNames(), ", "))
	default:
		ctx.WithOperation("build configuration")
	}

	return ctx.BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError prints err and, in verbose mode, the issue catalog entry it is
// linked to.
func renderError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	if !verbose {
		if issue.IdOf(err) != 0 {
			fmt.Fprintln(w, SubtitleStyle.Render("\nRun with --verbose for more help."))
		}
		return
	}

	id := issue.IdOf(err)
	if id == 0 {
		return
	}
	if entry := issue.Get(id); entry != nil {
		rendered, renderErr := entry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}
