package domain

// RootHint is a single root name server's label and IPv4 address, as
// published in the IANA root hints file.
type RootHint struct {
	Label string
	IPv4  string
}

// RootHints is the compiled-in, read-only list of the 13 IANA root name
// servers. The resolution engine picks a uniformly random entry as the
// entry point for every fresh iterative walk.
var RootHints = []RootHint{
	{Label: "a.root-servers.net", IPv4: "198.41.0.4"},
	{Label: "b.root-servers.net", IPv4: "199.9.14.201"},
	{Label: "c.root-servers.net", IPv4: "192.33.4.12"},
	{Label: "d.root-servers.net", IPv4: "199.7.91.13"},
	{Label: "e.root-servers.net", IPv4: "192.203.230.10"},
	{Label: "f.root-servers.net", IPv4: "192.5.5.241"},
	{Label: "g.root-servers.net", IPv4: "192.112.36.4"},
	{Label: "h.root-servers.net", IPv4: "198.97.190.53"},
	{Label: "i.root-servers.net", IPv4: "192.36.148.17"},
	{Label: "j.root-servers.net", IPv4: "192.58.128.30"},
	{Label: "k.root-servers.net", IPv4: "193.0.14.129"},
	{Label: "l.root-servers.net", IPv4: "199.7.83.42"},
	{Label: "m.root-servers.net", IPv4: "202.12.27.33"},
}
