package main

import "github.com/CPU-commits/Intranet_BXams/query/server"

// @title          XAMS API
// @version        1.0
// @description    API Server for reads, exports and the live monitor of the exam service
// @termsOfService http://swagger.io/terms/

// @contact.name  API Support
// @contact.url   http://www.swagger.io/support
// @contact.email support@swagger.io

// lincense.name  Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @tag.name        xams
// @tag.description Courses, groups and online exams

// @host     localhost:8080
// @BasePath /api/xams

// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       Authorization
// @description                BearerJWTToken in Authorization Header

// @accept  json
// @produce json
// @product application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @product application/pdf
// @product application/zip

// @schemes http https
func main() {
	server.Init()
}
