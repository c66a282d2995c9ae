package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable : aucun achat ne correspond au sélecteur produit/client.
	ErrDataUnavailable = errors.New("no transactions match selector")
	// ErrEmptySeries : l'agrégation n'a produit aucune période (différent d'une série de zéros).
	ErrEmptySeries = errors.New("insufficient data: empty series")
	// ErrConfiguration : colonne requise absente, modèle ou fréquence inconnus.
	ErrConfiguration = errors.New("configuration error")
	// ErrIdentityNotFound : l'identifiant client ne correspond à aucune ligne.
	ErrIdentityNotFound = errors.New("customer not found")
)

// ModelFitError signale qu'un modèle de prévision n'a pas pu être ajusté.
type ModelFitError struct {
	Model string
	Err   error
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("model %s: fit failed: %v", e.Model, e.Err)
}

func (e *ModelFitError) Unwrap() error { return e.Err }
