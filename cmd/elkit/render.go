package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/elkit/internal/config"
	"github.com/vango-dev/elkit/internal/errors"
	"github.com/vango-dev/elkit/internal/publish"
	"github.com/vango-dev/elkit/pkg/dom"
	"github.com/vango-dev/elkit/pkg/element"
	"github.com/vango-dev/elkit/pkg/layout"
	"github.com/vango-dev/elkit/pkg/render"
)

type renderOptions struct {
	pretty bool
	indent string
	page   bool
	out    string
}

func renderCmd(flags *globalFlags) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Render a layout to HTML",
		Long: `Build the elements described by a layout file and serialize them.

Output goes to stdout unless --out names a directory or an
s3://bucket/prefix target. The published file is named after the
layout with an .html extension.

Examples:
  elkit render page.json
  elkit render page.json --pretty --page
  elkit render page.json --out dist
  elkit render page.json --out s3://my-bucket/site`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pretty") {
				opts.pretty = cfg.Render.Pretty
			}
			if opts.indent == "" {
				opts.indent = cfg.Render.Indent
			}

			h := element.NewHandler(dom.NewDocument(), element.WithLogger(flags.logger()))
			return runRender(cmd.Context(), h, cfg, args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the output")
	cmd.Flags().StringVar(&opts.indent, "indent", "", "Indentation string for --pretty (default from elkit.json)")
	cmd.Flags().BoolVar(&opts.page, "page", false, "Wrap the output in a full HTML document")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output directory or s3://bucket/prefix")

	return cmd
}

// runRender builds path with h and writes the HTML to stdout or publishes it.
func runRender(ctx context.Context, h *element.Handler, cfg *config.Config, path string, opts renderOptions, stdout io.Writer) error {
	doc, err := readLayout(path)
	if err != nil {
		return err
	}
	els, err := doc.Build(h)
	if err != nil {
		return err
	}

	r := render.NewRenderer(render.Config{Pretty: opts.pretty, Indent: opts.indent})
	var buf bytes.Buffer
	if opts.page {
		body := make([]dom.Node, len(els))
		for i, el := range els {
			body[i] = el
		}
		err = r.RenderPage(&buf, render.PageData{Title: doc.Title, Body: body})
	} else {
		for _, el := range els {
			if err = r.RenderToWriter(&buf, el); err != nil {
				break
			}
			if !opts.pretty {
				buf.WriteByte('\n')
			}
		}
	}
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}

	pub, err := publish.Open(ctx, opts.out, publish.S3Options{
		Region:   cfg.Publish.S3.Region,
		Endpoint: cfg.Publish.S3.Endpoint,
	})
	if err != nil {
		return err
	}
	name := outputName(path)
	if err := pub.Publish(ctx, name, buf.Bytes()); err != nil {
		return err
	}
	success("Published %s to %s", name, opts.out)
	return nil
}

func readLayout(path string) (*layout.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("E142").WithDetail(path).Wrap(err)
	}
	defer f.Close()
	return layout.Decode(f)
}

// outputName is the layout file's base name with an .html extension.
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
}
