package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/live"
	"github.com/shadowtree-dev/shadowtree/pkg/middleware"
	"github.com/shadowtree-dev/shadowtree/pkg/morph"
	"github.com/shadowtree-dev/shadowtree/pkg/shadow"
)

// samplePage is served when no input file is given.
const samplePage = `<html>
<head><title>shadowtree</title></head>
<body>
<div id="app">
  <h1>shadowtree</h1>
  <p>Tracking this document. Patches applied: <span id="count">0</span></p>
  <time id="clock"></time>
</div>
</body>
</html>`

func serveCmd() *cobra.Command {
	var (
		file     string
		addr     string
		selector string
		interval time.Duration
		demo     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live, reconciled view of an HTML document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(file)
			if err != nil {
				return err
			}

			promReg := prometheus.NewRegistry()
			patcher := middleware.Prometheus(
				middleware.WithRegistry(promReg),
			)(morph.New())

			reg := shadow.New(doc, patcher)
			if err := promReg.Register(middleware.TrackedTrees(reg)); err != nil {
				return fmt.Errorf("register gauge: %w", err)
			}

			liveNode, err := doc.Query(selector)
			if err != nil {
				return err
			}
			if liveNode == nil {
				return fmt.Errorf("selector %q matched nothing", selector)
			}

			srv := live.NewServer(reg, &live.Config{
				Addr:          addr,
				FrameInterval: interval,
				Metrics:       promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}),
			})
			srv.Watch(liveNode)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if demo {
				// Safe to acquire directly: frames start inside Run.
				sh, err := reg.Acquire(shadow.ByNode(liveNode))
				if err != nil {
					return err
				}
				go runDemo(ctx, srv, sh)
			}

			fmt.Printf("Serving on http://%s (selector %q)\n", displayAddr(addr), selector)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "HTML file to serve (default: built-in sample)")
	cmd.Flags().StringVar(&addr, "addr", ":8420", "listen address")
	cmd.Flags().StringVar(&selector, "selector", "body", "node to track and watch for patches")
	cmd.Flags().DurationVar(&interval, "frame", 16*time.Millisecond, "frame interval")
	cmd.Flags().BoolVar(&demo, "demo", false, "mutate the shadow once a second to demonstrate the pipeline")
	return cmd
}

func loadDocument(file string) (*dom.Document, error) {
	if file == "" {
		return dom.ParseHTML(strings.NewReader(samplePage), nil)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.ParseHTML(f, nil)
}

// runDemo mutates the shadow once a second. All access goes through
// srv.Do so it never races the frame loop.
func runDemo(ctx context.Context, srv *live.Server, sh *dom.Node) {
	var clock, count *dom.Node
	srv.Do(func() {
		clock, _ = sh.Query("#clock")
		count, _ = sh.Query("#count")
	})
	if clock == nil && count == nil {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n++
			srv.Do(func() {
				if clock != nil {
					setTextContent(clock, time.Now().Format(time.TimeOnly))
				}
				if count != nil {
					setTextContent(count, strconv.Itoa(n))
				}
			})
		}
	}
}

// setTextContent replaces an element's content with a single text node,
// reusing an existing lone text child. SetText itself only works on text
// nodes, and an element like the sample page's clock starts empty.
func setTextContent(n *dom.Node, text string) {
	if n.ChildCount() == 1 {
		if c := n.FirstChild(); c.Kind() == dom.KindText {
			c.SetText(text)
			return
		}
	}
	for _, c := range n.Children() {
		c.Remove()
	}
	n.AppendChild(n.Document().CreateText(text))
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
