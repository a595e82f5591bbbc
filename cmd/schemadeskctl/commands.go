package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shhac/schemadesk/internal/app"
	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/logging"
	"github.com/shhac/schemadesk/internal/orchestrator"
	"github.com/shhac/schemadesk/internal/tree"
)

// env is the wired application for one command invocation
type env struct {
	app  *app.App
	host *terminalHost
	orch *orchestrator.Orchestrator
}

func setup(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.NewConsoleLogger(cmd.ErrOrStderr(), cfg.Debug || opts.debug)

	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	host := newTerminalHost(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.APIKey, opts.yes)
	return &env{
		app:  a,
		host: host,
		orch: a.Orchestrator(host),
	}, nil
}

func newFetchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Pick a workspace and API and download all its versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			report, err := e.orch.FetchAll(cmd.Context(), e.orch.NewSession())
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the cached workspace, API and version tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return printTree(cmd.OutOrStdout(), e.app.Tree(), nil, 0)
		},
	}
}

func newOpenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <version-id>",
		Short: "Print the mirrored schema of a fetched version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			doc, err := e.orch.OpenVersion(cmd.Context(), e.orch.NewSession(), args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), doc.Content)
			return err
		},
	}
}

func newPublishCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "publish <version-id>",
		Short: "Publish a schema body to a fetched version",
		Long: "Publish the mirrored file of a fetched version, or the body read from " +
			"--file, to Postman. Use --file - to read standard input.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			doc, err := e.orch.OpenVersion(cmd.Context(), e.orch.NewSession(), args[0])
			if err != nil {
				return err
			}

			content := doc.Content
			if file != "" {
				content, err = readBody(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
			}
			e.host.setDocument(content)
			return e.orch.PublishActive(cmd.Context(), doc.Session)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the schema body from this file")
	return cmd
}

func newPullCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull <api-or-version-id>",
		Short: "Overwrite local files with the schemas on Postman",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			node, err := findNode(e.app.Tree(), args[0])
			if err != nil {
				return err
			}
			if node.Kind == domain.KindAPIVersion {
				return e.orch.SyncVersionFromRemote(cmd.Context(), e.orch.NewSession(), node.ID)
			}
			report, err := e.orch.SyncAPIFromRemote(cmd.Context(), e.orch.NewSession(), node)
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func newPushCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push <api-or-version-id>",
		Short: "Publish local files to Postman",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			node, err := findNode(e.app.Tree(), args[0])
			if err != nil {
				return err
			}
			if node.Kind == domain.KindAPIVersion {
				return e.orch.SyncVersionToRemote(cmd.Context(), e.orch.NewSession(), node.ID)
			}
			report, err := e.orch.SyncAPIToRemote(cmd.Context(), e.orch.NewSession(), node)
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the cached tree; mirrored files stay on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return e.orch.ClearCache(cmd.Context())
		},
	}
}

// printTree writes the cached hierarchy below node, one record per line
func printTree(w io.Writer, provider *tree.HierarchyProvider, node *domain.Record, depth int) error {
	children, err := provider.Children(node)
	if err != nil {
		return err
	}
	if node == nil && len(children) == 0 {
		_, _ = fmt.Fprintln(w, "No APIs fetched yet. Run: schemadeskctl fetch")
		return nil
	}
	for _, child := range children {
		item := provider.Present(child)
		_, _ = fmt.Fprintf(w, "%s%s  [%s %s]\n", strings.Repeat("  ", depth), item.Label, item.ContextValue, item.ID)
		if item.IsBranch() {
			if err := printTree(w, provider, &child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// findNode locates an API or version in the cached tree by id
func findNode(provider *tree.HierarchyProvider, id string) (domain.Record, error) {
	var walk func(node *domain.Record) (domain.Record, bool, error)
	walk = func(node *domain.Record) (domain.Record, bool, error) {
		children, err := provider.Children(node)
		if err != nil {
			return domain.Record{}, false, err
		}
		for _, child := range children {
			if child.ID == id {
				return child, true, nil
			}
			if provider.Present(child).IsBranch() {
				found, ok, err := walk(&child)
				if err != nil || ok {
					return found, ok, err
				}
			}
		}
		return domain.Record{}, false, nil
	}

	node, ok, err := walk(nil)
	if err != nil {
		return domain.Record{}, err
	}
	if !ok {
		return domain.Record{}, fmt.Errorf("%s is not in the cached tree: %w", id, apperrors.ErrNotFound)
	}
	if node.Kind == domain.KindWorkspace {
		return domain.Record{}, apperrors.ValidationError{Field: "id", Message: "expected an API or API version, got workspace " + node.Name}
	}
	return node, nil
}

func printReport(w io.Writer, report orchestrator.Report) {
	for _, f := range report.Failures {
		_, _ = fmt.Fprintf(w, "  failed: %s: %v\n", f.VersionName, f.Err)
	}
}

func readBody(stdin io.Reader, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", &apperrors.FileError{Op: "read", Path: file, Err: err}
	}
	return string(data), nil
}
