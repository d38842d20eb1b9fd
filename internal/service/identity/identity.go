package identity

// Provider answers "who is the current user". An absent identity turns every
// durable write into a logged no-op; the pipeline keeps running.
type Provider interface {
	CurrentUserID() (string, bool)
}

type static struct {
	id string
}

// Static returns a provider for a fixed, known user id.
func Static(id string) Provider {
	return static{id: id}
}

func (s static) CurrentUserID() (string, bool) {
	return s.id, s.id != ""
}

// None returns a provider with no signed-in user.
func None() Provider {
	return static{}
}
