// Package templates holds the HTML rendered by the server: outgoing emails
// and the page shown after a verification link is opened.
package templates

import "embed"

//go:embed *.html
var FS embed.FS

const VerifiedPage = "verified.html"
