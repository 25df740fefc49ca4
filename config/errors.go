package config

import "errors"

var (
	ErrDevSecretInProd  = errors.New("SESSION_SECRET must be set in production")
	ErrGCSBucketMissing = errors.New("GCS_BUCKET is required when AVATAR_BACKEND=gcs")

	ErrInvalidTrustedProxy = errors.New("TRUSTED_PROXIES entry is not an IP or CIDR")
)
