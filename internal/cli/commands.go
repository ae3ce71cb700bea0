package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/rollup"
	"github.com/zoobzio/rollup/dialects"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rollup v%s (%s)\n", version, GitCommit)
		},
	}
}

// NewDialectsCommand lists the registered dialects.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List available SQL dialects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := GetEnv(cmd.Context())
			if err != nil {
				return err
			}
			current := env.Compiler.Dialect().Name()
			for _, name := range dialects.Names() {
				marker := " "
				if name == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

// NewRenderCommand renders the cumulative query of a query file.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <query.yaml>",
		Short: "Render the cumulative query in a query file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd.Context())
			if err != nil {
				return err
			}
			q, err := LoadQuery(args[0], env.Compiler, env.WeekStart)
			if err != nil {
				return err
			}
			result, err := env.Compiler.OverTimeSeriesSelect(q.Cumulative)
			if err != nil {
				return err
			}
			writeResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

// NewFilterCommand renders the filters of a query file.
func NewFilterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <query.yaml>",
		Short: "Render the filter predicates in a query file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd.Context())
			if err != nil {
				return err
			}
			q, err := LoadQuery(args[0], env.Compiler, env.WeekStart)
			if err != nil {
				return err
			}
			if len(q.Filters) == 0 {
				return fmt.Errorf("%s has no filters", args[0])
			}
			result, err := env.Compiler.Filters(q.Filters)
			if err != nil {
				return err
			}
			writeResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

// NewSeriesCommand renders a date series CTE for a date range.
func NewSeriesCommand() *cobra.Command {
	var granularity, from, to string

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Render the date series for a granularity and date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := GetEnv(cmd.Context())
			if err != nil {
				return err
			}
			g, err := rollup.ParseGranularity(granularity)
			if err != nil {
				return err
			}
			series, err := rollup.TimeSeries(g, from, to, env.WeekStart)
			if err != nil {
				return err
			}
			sql, err := env.Compiler.DateSeries(rollup.TimeDimension{Granularity: g, Series: series})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), sql)
			return nil
		},
	}

	cmd.Flags().StringVarP(&granularity, "granularity", "g", "day", "bucket granularity")
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func writeResult(w io.Writer, result *rollup.QueryResult) {
	_, _ = fmt.Fprintln(w, result.SQL)
	if len(result.Params) == 0 {
		return
	}
	params := make([]string, len(result.Params))
	for i, p := range result.Params {
		params[i] = fmt.Sprintf("%v", p)
	}
	_, _ = fmt.Fprintf(w, "-- params: %s\n", strings.Join(params, ", "))
}
