// Package inspect analyzes an HTML snapshot of the target page and
// proposes selector candidates for each registry role. The page's
// obfuscated class names rotate with deployments; this is the tool that
// keeps the selector registry current without reading minified markup
// by hand.
package inspect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/agnivade/levenshtein"
	"golang.org/x/net/html"

	"github.com/AMCarbonaro/snapbot/selectors"
	"github.com/AMCarbonaro/snapbot/utils"
)

// A node is our representation of a node in an html tree
type node struct {
	tagName string
	classes []string
}

func (n node) string() string {
	nodeString := n.tagName
	for _, cl := range n.classes {
		cl = strings.ReplaceAll(cl, ":", "\\:")
		if cl == "" {
			continue
		}
		if unicode.IsDigit(rune(cl[0])) {
			cl = fmt.Sprintf(`\3%s `, cl[1:])
		}
		nodeString += fmt.Sprintf(".%s", cl)
	}
	return nodeString
}

// A path is a list of nodes from an anchor element down to a specific
// element.
type path []node

func (p path) string() string {
	nodeStrings := []string{}
	for _, n := range p {
		nodeStrings = append(nodeStrings, n.string())
	}
	return strings.Join(nodeStrings, " > ")
}

func (p path) distance(p2 path) float64 {
	return float64(levenshtein.ComputeDistance(p.string(), p2.string()))
}

// Candidate is one proposed selector for a role.
type Candidate struct {
	Role     selectors.Role
	Selector string
	Count    int
	Examples []string
}

// Report maps each role to its ranked candidates, best first.
type Report map[selectors.Role][]Candidate

// nodePath builds the path of an element relative to its role anchor,
// capped at a few levels; deep paths break on every reflow.
func nodePath(n *html.Node, depth int) path {
	var p path
	for cur := n; cur != nil && cur.Type == html.ElementNode && len(p) < depth; cur = cur.Parent {
		nd := node{tagName: cur.Data}
		for _, a := range cur.Attr {
			if a.Key == "class" {
				nd.classes = strings.Fields(a.Val)
			}
		}
		p = append(path{nd}, p...)
	}
	return p
}

var sendRe = regexp.MustCompile(`(?i)send`)

// roleMatchers pick the raw element sets per role from the document.
var roleMatchers = map[selectors.Role]func(doc *goquery.Document) *goquery.Selection{
	selectors.ChatList: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(`[role="list"], div[aria-label*="Feed" i]`)
	},
	selectors.ChatItem: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(`[role="listitem"], [role="list"] > div, [role="list"] > li`)
	},
	selectors.InputBox: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(`[contenteditable="true"], [role="textbox"], textarea`)
	},
	selectors.SendButton: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(`button, [role="button"], [type="submit"]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
			label, _ := s.Attr("aria-label")
			return sendRe.MatchString(label) || sendRe.MatchString(s.Text())
		})
	},
	selectors.MessageList: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find("ul").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.ChildrenFiltered("li").Length() > 0
		})
	},
	selectors.MessageBubble: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(`span[dir="auto"], div[dir="auto"]`)
	},
	selectors.SearchInput: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(`input[role="search"], input[aria-label*="Search" i], input[type="search"]`)
	},
}

// Analyze parses the snapshot and ranks selector candidates for every
// role a matcher exists for. Candidates with structurally similar paths
// are folded together; the most frequent shape wins.
func Analyze(htmlStr string) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}
	report := Report{}
	for role, match := range roleMatchers {
		report[role] = rankCandidates(role, match(doc))
	}
	return report, nil
}

// clusterRadius is the maximum levenshtein distance between two element
// paths that still count as the same shape.
const clusterRadius = 8.0

func rankCandidates(role selectors.Role, sel *goquery.Selection) []Candidate {
	type cluster struct {
		p        path
		count    int
		examples []string
	}
	var clusters []*cluster
	sel.Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		p := nodePath(s.Nodes[0], 2)
		if len(p) == 0 {
			return
		}
		example := utils.ShortenString(strings.TrimSpace(s.Text()), 40)
		for _, c := range clusters {
			if c.p.distance(p) <= clusterRadius {
				c.count++
				if example != "" && len(c.examples) < 3 {
					c.examples = append(c.examples, example)
				}
				return
			}
		}
		c := &cluster{p: p, count: 1}
		if example != "" {
			c.examples = append(c.examples, example)
		}
		clusters = append(clusters, c)
	})
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].count > clusters[j].count })
	out := make([]Candidate, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, Candidate{
			Role:     role,
			Selector: c.p[len(c.p)-1:].string(),
			Count:    c.count,
			Examples: c.examples,
		})
	}
	return out
}

// Merge returns a selector update built from the best candidate of each
// role that currently differs from the registry, ready for
// selectors.Set.Merge.
func (r Report) Merge(current *selectors.Set) map[string]string {
	update := map[string]string{}
	for role, cands := range r {
		if len(cands) == 0 {
			continue
		}
		best := cands[0].Selector
		if best != "" && !strings.Contains(current.Get(role), best) {
			update[string(role)] = best + ", " + current.Get(role)
		}
	}
	return update
}
