package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"telugudb/pkg/models"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Browse and manage catalog content",
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies and series",
	Long: `List catalog content, optionally filtered.

Examples:
  telugudb content list
  telugudb content list --type series --language Telugu
  telugudb content list --search pushpa`,
	Args: cobra.NoArgs,
	RunE: runContentList,
}

var contentGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one content item",
	Args:  cobra.ExactArgs(1),
	RunE:  runContentGet,
}

var contentCreateCmd = &cobra.Command{
	Use:   "create -f <file.json>",
	Short: "Create content from a JSON document (admin)",
	Args:  cobra.NoArgs,
	RunE:  runContentCreate,
}

var contentUpdateCmd = &cobra.Command{
	Use:   "update <id> -f <patch.json>",
	Short: "Apply a partial JSON update (admin)",
	Long: `Apply a partial update. Only the fields present in the file change;
a "seasons" field replaces the whole season list.`,
	Args: cobra.ExactArgs(1),
	RunE: runContentUpdate,
}

var contentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete content (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runContentDelete,
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentListCmd, contentGetCmd, contentCreateCmd, contentUpdateCmd, contentDeleteCmd)

	contentListCmd.Flags().String("type", "", "movie or series")
	contentListCmd.Flags().String("language", "", "Exact language")
	contentListCmd.Flags().String("category", "", "Exact category")
	contentListCmd.Flags().String("search", "", "Title or tag substring")

	for _, c := range []*cobra.Command{contentCreateCmd, contentUpdateCmd} {
		c.Flags().StringP("file", "f", "", "JSON file ('-' for stdin)")
		_ = c.MarkFlagRequired("file")
	}
}

func runContentList(cmd *cobra.Command, _ []string) error {
	q := ListQuery{}
	q.Type, _ = cmd.Flags().GetString("type")
	q.Language, _ = cmd.Flags().GetString("language")
	q.Category, _ = cmd.Flags().GetString("category")
	q.Search, _ = cmd.Flags().GetString("search")

	items, err := NewClient(serverURL).List(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), items)
	}
	printContentTable(cmd.OutOrStdout(), items)
	return nil
}

func runContentGet(cmd *cobra.Command, args []string) error {
	item, err := NewClient(serverURL).Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), item)
}

func runContentCreate(cmd *cobra.Command, _ []string) error {
	doc, err := readJSONFile(cmd)
	if err != nil {
		return err
	}
	client, err := adminClient(cmd.Context(), NewClient(serverURL), keyPath)
	if err != nil {
		return err
	}

	item, err := client.Create(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), item)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (%s)\n", item.Type, item.Title, item.ID)
	return nil
}

func runContentUpdate(cmd *cobra.Command, args []string) error {
	patch, err := readJSONFile(cmd)
	if err != nil {
		return err
	}
	client, err := adminClient(cmd.Context(), NewClient(serverURL), keyPath)
	if err != nil {
		return err
	}

	item, err := client.Update(cmd.Context(), args[0], patch)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), item)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (%s)\n", item.Title, item.ID)
	return nil
}

func runContentDelete(cmd *cobra.Command, args []string) error {
	client, err := adminClient(cmd.Context(), NewClient(serverURL), keyPath)
	if err != nil {
		return err
	}
	if err := client.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func readJSONFile(cmd *cobra.Command) (json.RawMessage, error) {
	path, _ := cmd.Flags().GetString("file")

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

func printContentTable(w io.Writer, items []models.Content) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No content found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tLANGUAGE\tCATEGORY\tEPISODES")
	for i := range items {
		c := &items[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", c.ID, c.Type, c.Title, c.Language, c.Category, c.EpisodeCount())
	}
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
