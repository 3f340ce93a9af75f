package service

import "errors"

var errUnknownEnvelope = errors.New("envelope has no deliverable payload")
