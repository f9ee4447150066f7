package db_models

// All lists every persisted model, in dependency order, for migrations.
func All() []any {
	return []any{
		&Account{},
		&Profile{},
		&Product{},
		&Order{},
		&OrderItem{},
		&Review{},
		&Plan{},
		&Subscription{},
		&ProgressUpdate{},
		&NewsletterSubscriber{},
	}
}
