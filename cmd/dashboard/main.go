package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"kyri56xcaesar/pms-dash/internal/board"
	"kyri56xcaesar/pms-dash/internal/mdash"
	"kyri56xcaesar/pms-dash/internal/utils"
)

var (
	configPath string
	format     string

	projectID  string
	query      string
	statuses   string
	priorities string
	sortKey    string
)

var rootCmd = &cobra.Command{
	Use:           "dashboard",
	Short:         "Project dashboard service and reports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mdash.InitAndServe(configPath)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics of the demo dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		store, err := board.NewMockStore(now)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), format, store.DashboardStats(now))
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the kanban columns of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := board.NewMockStore(time.Now())
		if err != nil {
			return err
		}
		if _, ok := store.Project(projectID); !ok {
			return fmt.Errorf("%w: %s", board.ErrProjectNotFound, projectID)
		}
		return writeOutput(cmd.OutOrStdout(), format, store.GroupByStatus(projectID))
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Filter and sort the tasks of the demo dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := buildQuery(query, statuses, priorities, sortKey)
		if err != nil {
			return err
		}
		store, err := board.NewMockStore(time.Now())
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), format, board.FilterAndSortTasks(store.AllTasks(), q))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/dashboard.env", "path to the .env configuration")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")

	boardCmd.Flags().StringVarP(&projectID, "project", "p", "project-1", "project id")

	tasksCmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text filter")
	tasksCmd.Flags().StringVar(&statuses, "status", "", "comma separated statuses")
	tasksCmd.Flags().StringVar(&priorities, "priority", "", "comma separated priorities")
	tasksCmd.Flags().StringVar(&sortKey, "sort", "dueDate", "dueDate, priority, status or project")

	rootCmd.AddCommand(serveCmd, statsCmd, boardCmd, tasksCmd)
}

func buildQuery(text, statusList, priorityList, sort string) (board.TaskQuery, error) {
	key, err := board.ParseSortKey(sort)
	if err != nil {
		return board.TaskQuery{}, err
	}
	q := board.TaskQuery{Query: text, SortBy: key}

	for _, v := range utils.SplitFields(statusList) {
		st, err := board.ParseStatus(v)
		if err != nil {
			return q, err
		}
		q.Statuses = append(q.Statuses, st)
	}
	for _, v := range utils.SplitFields(priorityList) {
		p, err := board.ParsePriority(v)
		if err != nil {
			return q, err
		}
		q.Priorities = append(q.Priorities, p)
	}
	return q, nil
}

func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q", format)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
