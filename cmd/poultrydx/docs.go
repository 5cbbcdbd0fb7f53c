package main

// General API documentation for swaggo. Run `swag init -g cmd/poultrydx/docs.go -o docs` to regenerate.
//
// @title           poultrydx API
// @version         1.0
// @description     Poultry symptom checker: forwards form input to a diagnosis webhook and renders the reply.
//
// @contact.name   poultrydx maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
