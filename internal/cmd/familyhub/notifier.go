package familyhub

import (
	"fmt"
	"io"
	"sync"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/platform/errors/i18n"
)

// notifier turns errors into localized alert lines.
type notifier struct {
	mu      sync.Mutex
	out     io.Writer
	catalog *i18n.Catalog
}

func newNotifier(out io.Writer, catalog *i18n.Catalog) *notifier {
	return &notifier{out: out, catalog: catalog}
}

// Alert prints the localized text for err. Token errors are silent; they
// only sign the user out.
func (n *notifier) Alert(err error) {
	if err == nil {
		return
	}
	code := apperrors.CodeOf(err)
	if code.Silent() {
		return
	}
	text := n.catalog.Format(string(code), apperrors.MetadataOf(err))
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "! %s\n", text)
}
