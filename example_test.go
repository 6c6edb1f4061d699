package drop_test

import (
	"net/http"

	drop "blitznote.com/src/http.drop"
)

func Example() {
	cfg := drop.NewDefaultConfiguration(".")
	uploadHandler, err := drop.NewHandler(cfg, nil)
	if err != nil {
		panic(err)
	}

	http.Handle("/", drop.NewRouter(uploadHandler))
	// http.ListenAndServe(":8080", nil)
}
