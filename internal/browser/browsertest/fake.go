// Package browsertest provides an in-memory implementation of the browser
// interfaces for tests. Documents are trees of Nodes keyed by the selector
// that finds them, so fixtures mirror the markup shape the scraper walks
// without any real HTML.
package browsertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/omriel/cardscraper/internal/browser"
)

// Node is one fake DOM node. Children maps a selector to the nodes that
// selector resolves to within this subtree.
type Node struct {
	TextContent string
	Children    map[string][]*Node

	// OnClick runs when the node is clicked. Fixtures use it to mutate the
	// document, e.g. swapping a table's rows to simulate paging.
	OnClick func()
}

// Text builds a leaf node with the given text.
func Text(s string) *Node {
	return &Node{TextContent: s}
}

// Elem builds a node with children attached under selectors.
func Elem(children map[string][]*Node) *Node {
	return &Node{Children: children}
}

// Append attaches children under a selector, creating the map if needed.
func (n *Node) Append(selector string, children ...*Node) *Node {
	if n.Children == nil {
		n.Children = map[string][]*Node{}
	}
	n.Children[selector] = append(n.Children[selector], children...)
	return n
}

// find collects matches for the selector: direct children registered under
// it first, then matches from descendant subtrees.
func (n *Node) find(selector string) []*Node {
	var out []*Node
	out = append(out, n.Children[selector]...)
	for sel, children := range n.Children {
		if sel == selector {
			continue
		}
		for _, c := range children {
			out = append(out, c.find(selector)...)
		}
	}
	return out
}

// Page implements browser.Page over fake documents.
type Page struct {
	// Docs resolves a URL to a document root. Shared by every page the
	// fake browser opens; must be safe for concurrent calls.
	Docs func(url string) *Node

	mu       sync.Mutex
	location string
	root     *Node
	filled   map[string]string
	closed   bool
}

// NewPage builds a standalone fake page.
func NewPage(docs func(url string) *Node) *Page {
	return &Page{Docs: docs, filled: map[string]string{}}
}

func (p *Page) Navigate(_ context.Context, url string) error {
	root := p.Docs(url)
	if root == nil {
		return fmt.Errorf("no document at %s", url)
	}
	p.mu.Lock()
	p.location = url
	p.root = root
	p.mu.Unlock()
	return nil
}

// Goto is for fixtures: click handlers call it to simulate a redirect.
func (p *Page) Goto(url string) {
	root := p.Docs(url)
	p.mu.Lock()
	p.location = url
	p.root = root
	p.mu.Unlock()
}

func (p *Page) WaitReady(_ context.Context) error { return nil }

func (p *Page) URL(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location, nil
}

func (p *Page) Fill(_ context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filled[selector] = value
	return nil
}

// Filled reports the last value typed into the selector.
func (p *Page) Filled(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filled[selector]
}

func (p *Page) QueryAll(_ context.Context, selector string) ([]browser.Element, error) {
	p.mu.Lock()
	root := p.root
	p.mu.Unlock()
	if root == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	return wrap(root.find(selector)), nil
}

func (p *Page) QueryOne(ctx context.Context, selector string) (browser.Element, error) {
	els, err := p.QueryAll(ctx, selector)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type element struct {
	node *Node
}

func wrap(nodes []*Node) []browser.Element {
	els := make([]browser.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &element{node: n}
	}
	return els
}

func (e *element) QueryAll(_ context.Context, selector string) ([]browser.Element, error) {
	return wrap(e.node.find(selector)), nil
}

func (e *element) QueryOne(ctx context.Context, selector string) (browser.Element, error) {
	els, err := e.QueryAll(ctx, selector)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

func (e *element) Text(_ context.Context) (string, error) {
	return e.node.TextContent, nil
}

func (e *element) Click(_ context.Context) error {
	if e.node.OnClick != nil {
		e.node.OnClick()
	}
	return nil
}

// Browser implements browser.Browser, handing out fake pages that resolve
// documents through Docs.
type Browser struct {
	Docs func(url string) *Node

	mu     sync.Mutex
	pages  []*Page
	closed bool
}

// NewBrowser builds a fake browser serving the given documents.
func NewBrowser(docs func(url string) *Node) *Browser {
	return &Browser{Docs: docs}
}

func (b *Browser) NewPage(_ context.Context) (browser.Page, error) {
	p := NewPage(b.Docs)
	b.mu.Lock()
	b.pages = append(b.pages, p)
	b.mu.Unlock()
	return p, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

// Pages returns every page opened so far.
func (b *Browser) Pages() []*Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Page(nil), b.pages...)
}
