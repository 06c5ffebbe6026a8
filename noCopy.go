package nibtrie

// noCopy marks a struct as unsafe to copy after first use. go vet's
// copylocks check flags any type whose Lock/Unlock methods it sees, so
// embedding one here makes `go vet` reject `m2 := *m` the same way it
// would flag copying a sync.Mutex. Map holds no mutex of its own (its
// slot addresses are only stable if the container itself never moves),
// so a real lock would be both unnecessary and misleading; noCopy gets
// the same diagnostic for free.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
