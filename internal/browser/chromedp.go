package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Chrome drives a single headless (or headful) Chrome process through the
// DevTools protocol. Each Page is its own tab, so concurrent month fetches
// never share a DevTools session.
type Chrome struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc

	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu    sync.Mutex
	pages []*chromePage
}

// NewChrome launches a Chrome process and returns a Browser backed by it.
func NewChrome(ctx context.Context, headless bool) (*Chrome, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so launch failures surface
	// here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launching chrome: %w", err)
	}

	return &Chrome{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// NewPage opens a fresh tab.
func (c *Chrome) NewPage(ctx context.Context) (Page, error) {
	tabCtx, cancel := chromedp.NewContext(c.browserCtx)
	p := &chromePage{ctx: tabCtx, cancel: cancel}

	c.mu.Lock()
	c.pages = append(c.pages, p)
	c.mu.Unlock()

	return p, nil
}

// Close tears down every open tab and the browser process.
func (c *Chrome) Close() error {
	c.mu.Lock()
	pages := c.pages
	c.pages = nil
	c.mu.Unlock()

	for _, p := range pages {
		p.cancel()
	}
	c.browserCancel()
	c.allocCancel()
	return nil
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (p *chromePage) Navigate(_ context.Context, url string) error {
	if err := chromedp.Run(p.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) WaitReady(_ context.Context) error {
	return chromedp.Run(p.ctx, chromedp.WaitReady("body", chromedp.ByQuery))
}

func (p *chromePage) URL(_ context.Context) (string, error) {
	var loc string
	if err := chromedp.Run(p.ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

func (p *chromePage) Fill(_ context.Context, selector, value string) error {
	if err := chromedp.Run(p.ctx, chromedp.SendKeys(selector, value, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("filling %s: %w", selector, err)
	}
	return nil
}

func (p *chromePage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return p.queryNodes(selector, nil)
}

func (p *chromePage) QueryOne(ctx context.Context, selector string) (Element, error) {
	els, err := p.queryNodes(selector, nil)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}

// queryNodes resolves a selector to node handles, optionally scoped to a
// parent node. AtLeast(0) makes a non-matching selector return an empty
// result instead of blocking until the node appears.
func (p *chromePage) queryNodes(selector string, from *cdp.Node) ([]Element, error) {
	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if from != nil {
		opts = append(opts, chromedp.FromNode(from))
	}

	var nodes []*cdp.Node
	if err := chromedp.Run(p.ctx, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("querying %q: %w", selector, err)
	}

	els := make([]Element, len(nodes))
	for i, n := range nodes {
		els[i] = &chromeElement{page: p, node: n}
	}
	return els, nil
}

type chromeElement struct {
	page *chromePage
	node *cdp.Node
}

func (e *chromeElement) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return e.page.queryNodes(selector, e.node)
}

func (e *chromeElement) QueryOne(ctx context.Context, selector string) (Element, error) {
	els, err := e.page.queryNodes(selector, e.node)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

func (e *chromeElement) Text(_ context.Context) (string, error) {
	var text string
	err := chromedp.Run(e.page.ctx,
		chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (e *chromeElement) Click(_ context.Context) error {
	return chromedp.Run(e.page.ctx, chromedp.MouseClickNode(e.node))
}
