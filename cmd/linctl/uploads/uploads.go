// Package uploadscmder provides the uploads command group.
package uploadscmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const uploadsLongDesc string = `Move files in and out of Linear's upload storage.

upload pushes a local file through Linear's signed upload flow and
attaches the asset to an issue. fetch downloads an existing upload,
authenticated with your API key. attach-url links an arbitrary URL to
an issue without uploading anything.

Examples:
  linctl uploads upload ENG-123 ./design.png --title "Design"
  linctl up fetch https://uploads.linear.app/... -f out.png
  linctl up attach-url ENG-123 https://example.com/spec --title "Spec"`

const uploadsShortDesc string = "Move files in and out of Linear's upload storage"

const uploadURLPrefix = "https://uploads.linear.app/"

const attachMutation = `
	mutation($input: AttachmentCreateInput!) {
		attachmentCreate(input: $input) {
			success
			attachment { id title url }
		}
	}
`

func NewUploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uploads",
		Aliases: []string{"up"},
		Short:   uploadsShortDesc,
		Long:    uploadsLongDesc,
	}

	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newAttachURLCmd())

	return cmd
}

func newFetchCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "fetch <url>",
		Aliases: []string{"get"},
		Short:   "Download an upload from Linear's storage",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !strings.HasPrefix(args[0], uploadURLPrefix) {
				return fmt.Errorf("invalid URL: expected a Linear upload URL starting with %q", uploadURLPrefix)
			}

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			client, err := sess.Client()
			if err != nil {
				return err
			}

			data, err := client.FetchBytes(ctx, args[0])
			if err != nil {
				return fmt.Errorf("fetching upload: %w", err)
			}

			if file == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
			fmt.Fprintf(os.Stderr, "Downloaded %d bytes to %s\n", len(data), file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "write to a file instead of stdout")

	return cmd
}

func newAttachURLCmd() *cobra.Command {
	var flags output.Flags
	var title string

	cmd := &cobra.Command{
		Use:   "attach-url <issue> <url>",
		Short: "Attach a URL to an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			opts, err := sess.OutputOptions(&flags)
			if err != nil {
				return err
			}

			client, err := sess.Client()
			if err != nil {
				return err
			}

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			if title == "" {
				title = args[1]
			}
			attachment, err := createAttachment(ctx, client, issueID, title, args[1])
			if err != nil {
				return err
			}

			if opts.IDOnly {
				fmt.Println(jsonpath.String(attachment, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(attachment, opts)
			}

			fmt.Printf("%s Attached %s to %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(attachment, "", "title")),
				cliui.IDStyle.Render(args[0]))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVar(&title, "title", "", "attachment title (defaults to the URL)")

	return cmd
}

const fileUploadMutation = `
	mutation($filename: String!, $contentType: String!, $size: Int!) {
		fileUpload(filename: $filename, contentType: $contentType, size: $size) {
			success
			uploadFile {
				uploadUrl
				assetUrl
				headers { key value }
			}
		}
	}
`

func newUploadCmd() *cobra.Command {
	var flags output.Flags
	var title, contentType string

	cmd := &cobra.Command{
		Use:   "upload <issue> <file>",
		Short: "Upload a file and attach it to an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			opts, err := sess.OutputOptions(&flags)
			if err != nil {
				return err
			}

			client, err := sess.Client()
			if err != nil {
				return err
			}

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}
			filename := filepath.Base(args[1])
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			result, err := client.Mutate(ctx, fileUploadMutation, map[string]any{
				"filename":    filename,
				"contentType": contentType,
				"size":        len(data),
			})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "fileUpload", "success") {
				return fmt.Errorf("failed to initialize file upload")
			}

			uploadFile, _ := jsonpath.Get(result, "data", "fileUpload", "uploadFile")
			uploadURL := jsonpath.String(uploadFile, "", "uploadUrl")
			assetURL := jsonpath.String(uploadFile, "", "assetUrl")
			if uploadURL == "" || assetURL == "" {
				return fmt.Errorf("upload response missing signed URLs")
			}

			headers := signedHeaders(uploadFile, contentType)
			put := func() error {
				return client.PutBytes(ctx, uploadURL, headers, data)
			}
			if opts.IsJSON() || opts.IDOnly {
				err = put()
			} else {
				err = cliui.Step(os.Stderr, fmt.Sprintf("Uploading %s", filename), put)
			}
			if err != nil {
				return fmt.Errorf("uploading %s: %w", filename, err)
			}

			if title == "" {
				title = filename
			}
			attachment, err := createAttachment(ctx, client, issueID, title, assetURL)
			if err != nil {
				return err
			}

			if opts.IDOnly {
				fmt.Println(jsonpath.String(attachment, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(attachment, opts)
			}

			fmt.Printf("%s Uploaded and attached %s to %s\n", cliui.SuccessMark,
				cliui.NameStyle.Render(jsonpath.String(attachment, "", "title")),
				cliui.IDStyle.Render(args[0]))
			fmt.Printf("  %s\n", cliui.DimStyle.Render(assetURL))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVar(&title, "title", "", "attachment title (defaults to the filename)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type (defaults to application/octet-stream)")

	return cmd
}

// signedHeaders collects the headers Linear demands on the signed PUT,
// adding Content-Type when the server did not include one.
func signedHeaders(uploadFile any, contentType string) map[string]string {
	headers := map[string]string{}
	hasContentType := false
	for _, h := range jsonpath.Array(uploadFile, "headers") {
		key := jsonpath.String(h, "", "key")
		value := jsonpath.String(h, "", "value")
		if key == "" {
			continue
		}
		if strings.EqualFold(key, "content-type") {
			hasContentType = true
		}
		headers[key] = value
	}
	if !hasContentType {
		headers["Content-Type"] = contentType
	}
	return headers
}

func createAttachment(ctx context.Context, client *linear.Client, issueID, title, url string) (any, error) {
	input := map[string]any{
		"issueId": issueID,
		"title":   title,
		"url":     url,
	}
	result, err := client.Mutate(ctx, attachMutation, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	if !jsonpath.Bool(result, "data", "attachmentCreate", "success") {
		return nil, fmt.Errorf("failed to create attachment")
	}
	attachment, _ := jsonpath.Get(result, "data", "attachmentCreate", "attachment")
	return attachment, nil
}
