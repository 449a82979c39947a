// Package templates вшивает HTML-шаблоны в бинарник: страницы и письма
// рендерятся из любого рабочего каталога.
package templates

import "embed"

//go:embed pages/*.html
var Pages embed.FS

//go:embed emails/*.html
var Emails embed.FS
