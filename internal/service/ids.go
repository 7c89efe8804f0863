package service

import "strings"

// qualifyID returns the "table:key" form of id, accepting a bare key
func qualifyID(table, id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}

// sameID compares two ids of table regardless of whether either is bare
func sameID(table, a, b string) bool {
	return a != "" && qualifyID(table, a) == qualifyID(table, b)
}

// bareKey strips the table prefix from id
func bareKey(table, id string) string {
	return strings.TrimPrefix(id, table+":")
}
