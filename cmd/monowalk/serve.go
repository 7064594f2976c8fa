package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/spf13/cobra"

	"github.com/unityscope/monowalk"
)

var serveAddr string

// newServeCmd exposes the façade read-only over cleartext HTTP/2 (h2c), for
// trainers and observers written in a language other than Go that cannot
// link the library directly. The attachment lives for the process's
// lifetime; every request resolves a fresh lookup against the live target,
// it never caches a snapshot.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metadata lookups over HTTP/2 for out-of-process callers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, closeFn, err := openTarget()
			if err != nil {
				return err
			}
			defer closeFn()

			att, ok, err := monowalk.TryAttach(proc)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no supported Mono/IL2CPP runtime detected")
			}
			fmt.Printf("attached: variant=%s session=%s\n", att.Variant(), att.SessionID())

			mux := http.NewServeMux()
			mux.HandleFunc("/field", fieldHandler(att))
			mux.HandleFunc("/info", infoHandler(att))

			h2s := &http2.Server{}
			srv := &http.Server{
				Addr:    serveAddr,
				Handler: h2c.NewHandler(mux, h2s),
			}
			fmt.Printf("listening on %s (h2c)\n", serveAddr)
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:9421", "listen address")
	return cmd
}

type fieldResponse struct {
	Image  string `json:"image"`
	Class  string `json:"class"`
	Field  string `json:"field"`
	Offset uint64 `json:"offset"`
	Found  bool   `json:"found"`
}

func fieldHandler(att *monowalk.Attachment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		imageName, className, fieldName := q.Get("image"), q.Get("class"), q.Get("field")
		if imageName == "" || className == "" || fieldName == "" {
			http.Error(w, "image, class and field are required", http.StatusBadRequest)
			return
		}

		resp := fieldResponse{Image: imageName, Class: className, Field: fieldName}
		img, ok, err := att.GetImage(imageName)
		if err == nil && ok {
			var class *monowalk.Class
			class, ok, err = img.GetClass(className)
			if err == nil && ok {
				resp.Offset, resp.Found, err = class.GetField(fieldName)
			}
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func infoHandler(att *monowalk.Attachment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Variant   string `json:"variant"`
			SessionID string `json:"session_id"`
		}{
			Variant:   att.Variant().String(),
			SessionID: att.SessionID().String(),
		})
	}
}
