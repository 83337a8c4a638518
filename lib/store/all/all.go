// Package all is a meta-package that imports all store implementations.
package all

import (
	_ "github.com/TecharoHQ/l402/lib/store/bbolt"
	_ "github.com/TecharoHQ/l402/lib/store/memory"
	_ "github.com/TecharoHQ/l402/lib/store/valkey"
)
