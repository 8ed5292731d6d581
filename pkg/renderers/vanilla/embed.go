package vanilla

import (
	"embed"
	"io/fs"
	"sync"
)

const (
	// StylesheetName is the default stylesheet inside AssetsFS.
	StylesheetName = "connectorform.css"
	// RuntimeScriptName is the reveal script inside RuntimeFS.
	RuntimeScriptName = "connectorform.js"
)

//go:embed templates assets runtime
var bundle embed.FS

var (
	assetsFS  = mustSub("assets")
	runtimeFS = mustSub("runtime")

	stylesheet = sync.OnceValue(func() string {
		data, err := fs.ReadFile(assetsFS, StylesheetName)
		if err != nil {
			return ""
		}
		return string(data)
	})
	runtimeScript = sync.OnceValue(func() string {
		data, err := fs.ReadFile(runtimeFS, RuntimeScriptName)
		if err != nil {
			return ""
		}
		return string(data)
	})
)

// TemplatesFS returns the bundle rooted above templates/, matching the
// "templates/form.tmpl" names the renderer and component registry use.
func TemplatesFS() fs.FS { return bundle }

// AssetsFS returns the static assets served next to rendered forms.
func AssetsFS() fs.FS { return assetsFS }

// RuntimeFS returns the browser script that reveals sub-property fields when
// a toggle parent changes.
func RuntimeFS() fs.FS { return runtimeFS }

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(bundle, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
