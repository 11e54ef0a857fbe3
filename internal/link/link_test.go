package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkSurfacesFailureFromInvalidLinker(t *testing.T) {
	err := Link(Options{
		ObjectPath:  "/nonexistent/obj.o",
		RuntimePath: "/nonexistent/runtime.a",
		OutputPath:  "/tmp/perryc-link-test-out",
		Linker:      "/nonexistent/not-a-real-linker",
	})
	assert.Error(t, err)
}
