package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"storyreel/internal/media"
)

func newMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage the local media library",
	}

	cmd.AddCommand(newMediaScanCmd())
	cmd.AddCommand(newMediaListCmd())
	return cmd
}

func newMediaScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Index images, video and audio under the media directory",
		RunE:  runMediaScan,
	}
}

func newMediaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List indexed media, optionally ranked by a name query",
		RunE:  runMediaList,
	}
}

func runMediaScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	logger, closer, err := p.openLog("media-scan")
	if err != nil {
		return err
	}
	defer closer.Close()

	idx, err := media.Load(p.pp)
	if err != nil {
		return err
	}
	res, err := idx.Scan(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := media.Save(p.pp, idx); err != nil {
		return err
	}
	logger.Printf("scan root=%s added=%d updated=%d removed=%d unchanged=%d skipped=%d",
		idx.Root, len(res.Added), len(res.Updated), len(res.Removed), res.Unchanged, len(res.Skipped))
	for _, key := range res.Skipped {
		logger.Printf("skipped unsupported file: %s", key)
	}

	if outputJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode scan json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanned %s: %d added, %d updated, %d removed, %d unchanged, %d skipped\n",
		idx.Root, len(res.Added), len(res.Updated), len(res.Removed), res.Unchanged, len(res.Skipped))
	return nil
}

func runMediaList(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	idx, err := media.Load(p.pp)
	if err != nil {
		return err
	}

	entries := idx.Sorted()
	if query := strings.Join(args, " "); strings.TrimSpace(query) != "" {
		entries = idx.Search(query)
	}

	if outputJSON {
		if entries == nil {
			entries = []media.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encode media json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No media indexed. Run storyreel media scan.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tCLASS\tMIME\tSIZE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Key, e.Class, e.MIME, e.SizeBytes)
	}
	return w.Flush()
}
