package controller

import (
	"net/http"
	"net/http/pprof"
	"strings"
)

// Pprof returns an http.ServeMux serving net/http/pprof under prefix, which
// must end in a slash. Mount it on the main mux at the same prefix.
func Pprof(prefix string) *http.ServeMux {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(prefix, pprof.Index)
	mux.HandleFunc(prefix+"cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"profile", pprof.Profile)
	mux.HandleFunc(prefix+"symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"trace", pprof.Trace)

	return mux
}
