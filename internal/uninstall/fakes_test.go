package uninstall_test

import (
	"fmt"
	"sync"
)

// recorder counts calls and can fail, panic or run a hook per item.
type recorder struct {
	mu      sync.Mutex
	calls   []string
	failOn  map[string]error
	panicOn map[string]bool
	hook    func(call int, item string)
}

func (r *recorder) do(item string) error {
	r.mu.Lock()
	r.calls = append(r.calls, item)
	n := len(r.calls)
	hook := r.hook
	r.mu.Unlock()

	if hook != nil {
		hook(n, item)
	}
	if r.panicOn[item] {
		panic("mutator exploded on " + item)
	}
	return r.failOn[item]
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...)
}

type fakeFiles struct{ recorder }

func (f *fakeFiles) Uninstall(path string) error { return f.do(path) }

type fakeConfigs struct{ recorder }

func (f *fakeConfigs) Unedit(file, section, key string) error {
	return f.do(fmt.Sprintf("%s[%s]%s", file, section, key))
}

type fakeValues struct{ recorder }

func (f *fakeValues) UnEdit(key string) error { return f.do(key) }
