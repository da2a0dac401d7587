// Package main is the entry point for the portfolio API.
//
//	@title			Portfolio API
//	@version		1.0
//	@description	CRUD endpoints for the portfolio website collections.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:5000
//	@BasePath		/
package main

func main() {
	Execute()
}
