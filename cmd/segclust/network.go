// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/kortschak/overlap/cluster"
)

func joinOwners(owners []string) string { return strings.Join(owners, ",") }

// writeEdges writes the cluster membership network as tab-delimited
// cluster ID and owner pairs.
func writeEdges(w io.Writer, clusters []cluster.Cluster) error {
	bw := bufio.NewWriter(w)
	for _, c := range clusters {
		for _, o := range c.Owners {
			_, err := fmt.Fprintf(bw, "%s\t%s\n", c.ID, o)
			if err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// writeDOT writes the bipartite cluster membership network to w
// in DOT format.
func writeDOT(w io.Writer, clusters []cluster.Cluster) error {
	g := newMemberGraph()
	for _, c := range clusters {
		cn := g.nodeFor(c.ID, clusterNode)
		for _, o := range c.Owners {
			g.SetEdge(edge{f: cn, t: g.nodeFor(o, ownerNode)})
		}
	}
	b, err := dot.Marshal(g, "clusters", "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// memberGraph is an undirected graph of clusters and their members.
type memberGraph struct {
	*simple.UndirectedGraph
	idFor map[string]int64
}

func newMemberGraph() memberGraph {
	return memberGraph{
		UndirectedGraph: simple.NewUndirectedGraph(),
		idFor:           make(map[string]int64),
	}
}

func (g memberGraph) nodeFor(name string, kind nodeKind) graph.Node {
	name = kind.String() + ":" + name
	id, ok := g.idFor[name]
	if ok {
		return g.Node(id)
	}
	id = g.UndirectedGraph.NewNode().ID()
	g.idFor[name] = id
	n := node{id: id, name: name, kind: kind}
	g.AddNode(n)
	return n
}

type nodeKind int

const (
	clusterNode nodeKind = iota
	ownerNode
)

func (k nodeKind) String() string {
	switch k {
	case clusterNode:
		return "cluster"
	case ownerNode:
		return "owner"
	default:
		panic("unknown node kind")
	}
}

type node struct {
	id   int64
	name string
	kind nodeKind
}

func (n node) ID() int64     { return n.id }
func (n node) DOTID() string { return n.name }
func (n node) Attributes() []encoding.Attribute {
	if n.kind == clusterNode {
		return []encoding.Attribute{{Key: "shape", Value: "box"}}
	}
	return nil
}

type edge struct {
	f, t graph.Node
}

func (e edge) From() graph.Node         { return e.f }
func (e edge) To() graph.Node           { return e.t }
func (e edge) ReversedEdge() graph.Edge { return edge{f: e.t, t: e.f} }
