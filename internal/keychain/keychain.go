// Package keychain stores the bot token in the operating system keychain.
package keychain

import "github.com/zalando/go-keyring"

const serviceName = "webhookbot"

// Token retrieves the bot token stored for account.
func Token(account string) (string, error) {
	return keyring.Get(serviceName, account)
}

// SetToken stores the bot token for account.
func SetToken(account, token string) error {
	return keyring.Set(serviceName, account, token)
}

// DeleteToken removes the bot token stored for account.
func DeleteToken(account string) error {
	return keyring.Delete(serviceName, account)
}
