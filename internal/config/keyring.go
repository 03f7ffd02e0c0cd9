/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// Keychain service/key for the postgres password.
const (
	keyringService    = "GoSalesDesk"
	keyringDBPassword = "db_password"
)

// SecretStore abstracts the OS keychain so tests can swap in a map.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var secrets SecretStore = osKeyring{}

// osKeyring implements SecretStore with github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// ForgetPassword removes the stored database password, ignoring a missing entry.
func ForgetPassword() error {
	if err := secrets.Delete(keyringService, keyringDBPassword); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
