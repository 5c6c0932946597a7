package workspace

import "sync"

// LoginPath is where a forced redirect sends the client.
const LoginPath = "/login"

// Navigator records forced redirects to the login page for one workspace.
// Redirects are counted; the portal compares the count against a mark taken
// when a request starts, so requests in flight on the same workspace never
// consume each other's redirect.
type Navigator struct {
	mu        sync.Mutex
	redirects uint64
	hooks     []func()
}

// OnRedirect registers a callback run on every forced redirect.
func (n *Navigator) OnRedirect(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks = append(n.hooks, fn)
}

// RedirectToLogin records a redirect and runs the hooks.
func (n *Navigator) RedirectToLogin() {
	n.mu.Lock()
	n.redirects++
	hooks := append([]func(){}, n.hooks...)
	n.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Mark returns the number of redirects raised so far.
func (n *Navigator) Mark() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirects
}

// RedirectedSince reports whether a redirect was raised after mark was taken.
func (n *Navigator) RedirectedSince(mark uint64) bool {
	return n.Mark() > mark
}
