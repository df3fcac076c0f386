// Package docs provides generated OpenAPI documentation.
//
// fixspell API
//
//	@title			fixspell API
//	@version		1.0
//	@description	Grammar and spelling correction service. POST /api/fix streams a structured correction.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/fixspelling/fixspell
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/fixspell/serve.go -o . --parseDependency --parseInternal --outputTypes go
