package testutil

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/avisser/notedeck/notebook"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireNotebook opens a throwaway notebook in a temporary directory
// and returns it along with its cleanup function.
func AcquireNotebook(ctx context.Context, t TestLog) (*notebook.Store, func()) {
	dir, err := ioutil.TempDir("", "notedeck-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := notebook.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close notebook", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
