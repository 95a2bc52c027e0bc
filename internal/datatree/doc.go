// Package datatree infers a data root, actor name, and DLC index from the
// shape of a path inside a game data directory.
//
// The heuristics recognize a fixed vocabulary of folder names ("meshes",
// "textures", "actors", and anything containing "dlc"). Results for trees
// that do not follow the <root>/meshes/actors/[dlcNN/]<actor> convention are
// undefined. Every function is read-only with respect to the filesystem.
package datatree
