package social

// Identity is the normalized result of a provider exchange: identity facts
// only, no user creation or token decisions.
type Identity struct {
	Provider string
	ID       string // provider-scoped user id
	Email    string
	Name     string
	Picture  string

	// Instagram-specific fields, zero for other providers.
	Username    string
	AccountType string // PERSONAL, BUSINESS or CREATOR
	MediaCount  int
}

// IsBusiness reports whether the identity belongs to an Instagram
// business or creator account, which unlocks publishing permissions.
func (i *Identity) IsBusiness() bool {
	return i.Provider == "instagram" &&
		(i.AccountType == "BUSINESS" || i.AccountType == "CREATOR")
}
