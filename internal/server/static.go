package server

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// liveReloadSnippet is injected before </body> of served HTML pages.
const liveReloadSnippet = `<script>
(function() {
    var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/livereload');
    ws.onmessage = function(ev) {
        var msg = JSON.parse(ev.data);
        if (msg.type === 'reload') { location.reload(); }
    };
})();
</script>
`

var bodyClose = []byte("</body>")

// staticHandler serves the manual directory. With live reload enabled,
// HTML pages are read and served with the reload script injected.
func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.Dir))
	if !s.cfg.LiveReload {
		return files
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/") {
			name = path.Join(name, "index.html")
		}
		if path.Ext(name) != ".html" {
			files.ServeHTTP(w, r)
			return
		}

		full := filepath.Join(s.cfg.Dir, filepath.FromSlash(name))
		data, err := os.ReadFile(full)
		if err != nil {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(injectLiveReload(data)))
	})
}

// injectLiveReload inserts the reload script before the last </body>, or
// appends it when the page has none.
func injectLiveReload(page []byte) []byte {
	i := bytes.LastIndex(page, bodyClose)
	if i < 0 {
		return append(page, liveReloadSnippet...)
	}
	out := make([]byte, 0, len(page)+len(liveReloadSnippet))
	out = append(out, page[:i]...)
	out = append(out, liveReloadSnippet...)
	return append(out, page[i:]...)
}
