package uploads

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/media"
)

type MediaCmd struct {
	Upload MediaUploadCmd `cmd:"" help:"Upload progress photos or videos."`
	List   MediaListCmd   `cmd:"" help:"List uploaded media, newest first."`
	Delete MediaDeleteCmd `cmd:"" help:"Delete an uploaded file."`
	Usage  MediaUsageCmd  `cmd:"" help:"Show storage usage."`
	Clean  MediaCleanCmd  `cmd:"" help:"Keep only the newest uploads."`
}

type MediaUploadCmd struct {
	Files []string `arg:"" help:"Files to upload." type:"existingfile"`
	Type  string   `help:"Media type (before|progress|after)." default:"progress" short:"t"`
}

func (c *MediaUploadCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	files := make([]media.File, 0, len(c.Files))
	for _, p := range c.Files {
		f, err := ReadFile(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	if tier, ok := svc.Selector().Current(); ok {
		fmt.Printf("Uploading %d file(s) via %s storage...\n", len(files), tier)
	}
	report, out, err := svc.UploadMedia(bg, files, constants.MediaType(c.Type))
	ctx.Deliver(bg, out)
	if err != nil {
		return err
	}
	for _, it := range report.Items {
		fmt.Printf("  %s  %s  %s  %s\n", it.Name, humanize.IBytes(uint64(it.Size)), it.StorageTier, cli.Muted("id: "+it.ID))
	}
	return nil
}

// ReadFile loads p for upload. The content type comes from the extension
// and falls back to sniffing the content.
func ReadFile(p string) (media.File, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return media.File{}, fmt.Errorf("failed to read %s: %w", p, err)
	}
	ct := mime.TypeByExtension(filepath.Ext(p))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return media.File{Name: filepath.Base(p), ContentType: ct, Data: data}, nil
}

type MediaListCmd struct {
	Type string `help:"Only show one media type (before|progress|after)." default:""`
}

func (c *MediaListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	items, err := svc.Media()
	if err != nil {
		return err
	}
	shown := 0
	for _, it := range items {
		if c.Type != "" && string(it.Type) != c.Type {
			continue
		}
		shown++
		fmt.Printf("%-8s %-28s %9s  %-8s %s\n", it.Type, it.Name, humanize.IBytes(uint64(it.Size)),
			it.StorageTier, humanize.Time(it.UploadedAt))
		fmt.Println(cli.Muted("    id: " + it.ID + "  " + it.URL))
	}
	if shown == 0 {
		fmt.Println("No media uploaded yet.")
	}
	return nil
}

type MediaDeleteCmd struct {
	ID string `arg:"" help:"Media id."`
}

func (c *MediaDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	out, err := svc.DeleteMedia(bg, c.ID)
	if err != nil {
		return err
	}
	if !out.Changed {
		fmt.Printf("Media %s not found, nothing to delete.\n", c.ID)
		return nil
	}
	ctx.Deliver(bg, out)
	return nil
}

type MediaUsageCmd struct{}

func (c *MediaUsageCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	u, err := svc.StorageUsage(bg)
	if err != nil {
		return err
	}
	PrintUsage(u)
	for _, st := range svc.Selector().Status() {
		mark := "✓"
		if !st.Ready {
			mark = "✗"
		}
		line := fmt.Sprintf("  %s %s", mark, st.Tier)
		if st.Error != "" {
			line += cli.Muted(" (" + st.Error + ")")
		}
		fmt.Println(line)
	}
	return nil
}

// PrintUsage prints used storage against the reporting tier's limit.
func PrintUsage(u media.Usage) {
	where := "local"
	if u.Cloud {
		where = "cloud"
	}
	fmt.Printf("%s storage: %s of %s used (%.1f%%), %d file(s)\n", where,
		humanize.IBytes(uint64(u.Used)), humanize.IBytes(uint64(u.Limit)), u.Percent, u.Items)
	fmt.Printf("  %s %s remaining\n", cli.Bar(int(u.Percent), 20), humanize.IBytes(uint64(max(u.Remaining, 0))))
}

type MediaCleanCmd struct {
	Keep int `help:"Number of newest uploads to keep (default from config)." default:"0"`
}

func (c *MediaCleanCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	keep := c.Keep
	if keep <= 0 && ctx.Config != nil {
		keep = ctx.Config.Media.Keep
	}
	removed, out, err := svc.CleanOldMedia(bg, keep)
	if err != nil {
		return err
	}
	if removed == 0 {
		fmt.Println("Nothing to clean up.")
		return nil
	}
	ctx.Deliver(bg, out)
	return nil
}
