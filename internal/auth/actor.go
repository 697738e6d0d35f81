package auth

// Capability is a coarse permission an actor may hold. Checks are explicit at
// the call site rather than hidden in handler wrapping, so protected
// operations read as "check, then act".
type Capability string

const (
	CapabilityCustomer Capability = "customer"
	CapabilityVendor   Capability = "vendor"
)

// Actor is the authenticated principal every core operation is scoped to.
// There is no ambient current-user state; an Actor is always passed in.
type Actor struct {
	UserID       string
	Email        string
	VendorID     int64
	Capabilities []Capability
}

func (a Actor) HasCapability(c Capability) bool {
	for _, have := range a.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

func (a Actor) IsAnonymous() bool {
	return a.UserID == ""
}
