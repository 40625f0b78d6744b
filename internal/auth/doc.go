// Package auth answers authorization questions for authenticated users.
//
// Every decision is a read of the current permission catalog. The omnipotent
// role is granted every permission, including names the catalog does not know;
// any other role needs an explicit grant. Users without an active role are denied.
//
// Permission names used in code are generated from the module registry, see
// permissions_gen.go.
package auth

//go:generate go run ../../cmd/permgen -o permissions_gen.go --package auth
