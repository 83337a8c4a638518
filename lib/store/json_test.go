package store_test

import (
	"testing"
	"time"

	"github.com/TecharoHQ/l402/lib/store"
	"github.com/TecharoHQ/l402/lib/store/memory"
)

func TestJSON(t *testing.T) {
	type credential struct {
		Credential   string `json:"credential"`
		MaxBandwidth int64  `json:"maxBandwidth"`
	}

	st := memory.New(t.Context())
	db := store.JSON[credential]{
		Underlying: st,
		Prefix:     "token:",
	}

	want := credential{Credential: "mac:preimage", MaxBandwidth: 500}

	if err := db.Set(t.Context(), "example.com", want, time.Minute); err != nil {
		t.Fatal(err)
	}

	got, err := db.Get(t.Context(), "example.com")
	if err != nil {
		t.Fatal(err)
	}

	if got != want {
		t.Fatalf("got wrong data for key \"example.com\", wanted %+v but got: %+v", want, got)
	}

	if err := db.Delete(t.Context(), "example.com"); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Get(t.Context(), "example.com"); err == nil {
		t.Fatal("wanted invalid get to fail, it did not")
	}

	if err := st.Set(t.Context(), "token:example.com", []byte("}"), time.Minute); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Get(t.Context(), "example.com"); err == nil {
		t.Fatal("wanted invalid get to fail, it did not")
	}
}
