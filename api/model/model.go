/*
Copyright 2025 Coinvault Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/coinvault/coinvault/model"
)

// WalletOperation is the request body for deposits and withdrawals.
type WalletOperation struct {
	Quantity decimal.Decimal `json:"quantity"`
	Source   string          `json:"source,omitempty"`
}

// RecordTrade is the request body for coin buys and sells.
type RecordTrade struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func positiveDecimal(d decimal.Decimal) validation.RuleFunc {
	return func(value interface{}) error {
		if !d.IsPositive() {
			return errors.New("must be greater than zero")
		}
		return nil
	}
}

func knownSource(source string) validation.RuleFunc {
	return func(value interface{}) error {
		if source == "" {
			return nil
		}
		if !model.ValidSource(model.EntrySource(source)) {
			return errors.New("must be one of: fiat, coin")
		}
		return nil
	}
}

func (w *WalletOperation) ValidateWalletOperation() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Quantity, validation.By(positiveDecimal(w.Quantity))),
		validation.Field(&w.Source, validation.By(knownSource(w.Source))),
	)
}

func (r *RecordTrade) ValidateRecordTrade() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Quantity, validation.By(positiveDecimal(r.Quantity))),
		validation.Field(&r.UnitPrice, validation.By(positiveDecimal(r.UnitPrice))),
	)
}

// EntrySource maps the request's source string onto the domain type,
// defaulting to a direct fiat movement.
func (w *WalletOperation) EntrySource() model.EntrySource {
	if w.Source == "" {
		return model.SourceFiat
	}
	return model.EntrySource(w.Source)
}
