package xbrl

import (
	"encoding/xml"
	"maps"
)

// namespaceStack tracks the in-scope prefix->URI mapping and the in-scope
// xml:base/xml:lang/xml:id as elements are pushed and popped during a
// streaming parse. It is namespace-aware by construction: QName values
// found inside attribute text (measures, dimension/member references,
// substitutionGroup, type) must be resolved against the *declaring*
// element's scope, not the document's root scope, since prefixes can be
// redeclared at any depth.
//
// No DTD resolution and no external entity expansion happen here;
// encoding/xml performs neither by default, which is the security
// property this type relies on.
type namespaceStack struct {
	stack []nsFrame
}

type nsFrame struct {
	nsMap map[string]string // prefix -> URI
	base  string            // xml:base, inherited unless overridden
	lang  string            // xml:lang, inherited unless overridden
	id    string             // xml:id of this element, not inherited
}

const (
	xmlAttrSpace = "http://www.w3.org/XML/1998/namespace"
)

func newNamespaceStack() *namespaceStack {
	return &namespaceStack{
		stack: []nsFrame{{nsMap: map[string]string{}}},
	}
}

// Push adds a new namespace/base/lang context to the stack based on the
// given start element, inheriting from the current top frame.
func (ns *namespaceStack) Push(se xml.StartElement) {
	top := nsFrame{nsMap: map[string]string{}}
	if len(ns.stack) > 0 {
		prev := ns.stack[len(ns.stack)-1]
		maps.Copy(top.nsMap, prev.nsMap)
		top.base = prev.base
		top.lang = prev.lang
	}

	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "xmlns":
			top.nsMap[a.Name.Local] = a.Value
		case a.Name.Local == "xmlns" && a.Name.Space == "":
			top.nsMap[""] = a.Value
		case a.Name.Space == xmlAttrSpace && a.Name.Local == "base":
			top.base = a.Value
		case a.Name.Space == xmlAttrSpace && a.Name.Local == "lang":
			top.lang = a.Value
		case a.Name.Space == xmlAttrSpace && a.Name.Local == "id":
			top.id = a.Value
		}
	}

	ns.stack = append(ns.stack, top)
}

// Pop removes the top context from the stack.
func (ns *namespaceStack) Pop(_ xml.EndElement) {
	if len(ns.stack) > 1 {
		ns.stack = ns.stack[:len(ns.stack)-1]
	}
}

// URIForPrefix returns the namespace URI for the given prefix in the
// current namespace context.
func (ns *namespaceStack) URIForPrefix(prefix string) string {
	if len(ns.stack) == 0 {
		return ""
	}
	top := ns.stack[len(ns.stack)-1]
	return top.nsMap[prefix]
}

// PrefixForURI returns the first prefix found for the given URI in the
// current namespace context.
func (ns *namespaceStack) PrefixForURI(uri string) string {
	if len(ns.stack) == 0 || uri == "" {
		return ""
	}
	top := ns.stack[len(ns.stack)-1]
	for p, u := range top.nsMap {
		if u == uri {
			return p
		}
	}
	return ""
}

// Base returns the in-scope xml:base, if any.
func (ns *namespaceStack) Base() string {
	if len(ns.stack) == 0 {
		return ""
	}
	return ns.stack[len(ns.stack)-1].base
}

// Lang returns the in-scope xml:lang, if any.
func (ns *namespaceStack) Lang() string {
	if len(ns.stack) == 0 {
		return ""
	}
	return ns.stack[len(ns.stack)-1].lang
}

// qname resolves a lexical QName value ("prefix:local" or "local") against
// the current namespace scope.
func (ns *namespaceStack) qname(lexical string) QName {
	prefix := prefixOf(lexical)
	local := localOf(lexical)
	uri := ""
	if ns != nil {
		uri = ns.URIForPrefix(prefix)
	}
	return QName{prefix: prefix, local: local, uri: uri}
}
