// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"context"
	"encoding/hex"

	"github.com/vaultgate/spunwrap/pkg/hwsvc"
	"github.com/vaultgate/spunwrap/pkg/log"
	"github.com/vaultgate/spunwrap/pkg/log/flags"
	"github.com/vaultgate/spunwrap/pkg/secret"
)

// DefaultCredential is the sentinel a caller passes for a user who has
// never set a lock-screen credential.
const DefaultCredential = "!"

// CEUnlockCEFlag is passed to PrepareUserStorage to request the
// Credential-Encrypted storage class.
const CEUnlockCEFlag = 1

// KeyLookup resolves an Android user id to the handle stem and keystore
// alias recorded for it. pkg/keystoreinfo is the production implementation.
type KeyLookup interface {
	Resolve(uid int) (handle, alias string, err error)
}

// CEUnlocker is the metadata-encryption layer this engine hands the final
// FBE secret to. It is an external collaborator: this package never mounts
// or formats anything itself.
type CEUnlocker interface {
	UnlockCEStorage(ctx context.Context, uid int, fbeSecretHex string) error
	PrepareUserStorage(ctx context.Context, uid int, flags int) error
}

// SnapshotPrep pre-snapshots the keystore's persistent DB into a writable
// overlay. Called once, before the first keystore RPC, only on the
// default-password path.
type SnapshotPrep interface {
	SnapshotPersistentDB(ctx context.Context) error
}

// Config configures an Engine.
type Config struct {
	// DataDir is the /data-equivalent root; overridable so a
	// recovery-environment test can point it at a scratch directory.
	DataDir string
	// Endpoints names the four hardware-service dial targets.
	Endpoints hwsvc.Endpoints
}

// Engine drives one unlock at a time. It is not safe for concurrent Unlock
// calls against the same user; callers must serialize.
type Engine struct {
	cfg      Config
	lookup   KeyLookup
	ce       CEUnlocker
	snapshot SnapshotPrep
	pool     *hwsvc.Pool
}

// NewEngine builds an Engine. pool is nil until Init succeeds.
func NewEngine(cfg Config, lookup KeyLookup, ce CEUnlocker, snapshot SnapshotPrep) *Engine {
	return &Engine{cfg: cfg, lookup: lookup, ce: ce, snapshot: snapshot}
}

// Init starts the RPC dispatcher and waits for the keystore daemon to
// become reachable. Must be called exactly once before the first Unlock.
func (e *Engine) Init(ctx context.Context) error {
	pool, err := hwsvc.NewPool(ctx, e.cfg.Endpoints)
	if err != nil {
		return wrap(HardwareUnavailable, err, "init hardware service pool")
	}
	e.pool = pool
	log.Logf("unwrap: engine initialized")
	return nil
}

// Shutdown releases the RPC dispatcher. Safe to call even if Init failed.
func (e *Engine) Shutdown() { e.pool = nil }

// Unlock runs the full pipeline for uid and credential, invoking the
// external CE-unlock calls on success. credential == DefaultCredential
// means the user has no set credential.
func (e *Engine) Unlock(ctx context.Context, uid int, credential string) error {
	t := newTracker()

	handle, alias, err := e.lookup.Resolve(uid)
	if err != nil {
		return t.fail(asErr(err, IoError, "resolve handle for uid %d", uid))
	}
	bs := &BlobStore{Dir: spblobDirFor(e.cfg.DataDir, uid)}

	isDefault := credential == DefaultCredential

	var tokenBuf *secret.Buffer
	var appIDBuf *secret.Buffer
	var spBuf *secret.Buffer
	defer func() {
		for _, b := range []*secret.Buffer{tokenBuf, appIDBuf, spBuf} {
			if b != nil {
				b.Zero()
			}
		}
	}()

	if isDefault {
		if e.snapshot != nil {
			if err := e.snapshot.SnapshotPersistentDB(ctx); err != nil {
				return t.fail(asErr(err, IoError, "snapshot persistent db"))
			}
		}
		tokenBuf = secret.FromBytes(deriveDefaultToken())
	} else {
		pd, err := bs.readPasswordData(handle)
		if err != nil {
			return t.fail(asErr(err, BlobMissing, "read password data"))
		}
		tok, err := deriveScryptToken([]byte(credential), pd)
		if err != nil {
			return t.fail(asErr(err, KdfError, "derive scrypt token"))
		}
		tokenBuf = secret.FromBytes(tok)
		secret.Wipe(tok)
	}
	t.advance(TokenDerived)

	var appID []byte
	if bs.hasWeaver(handle) {
		appID, err = e.weaverPath(ctx, bs, handle, tokenBuf.Bytes())
	} else {
		appID, err = e.secdisPath(ctx, bs, handle, uid, tokenBuf.Bytes(), isDefault)
	}
	if err != nil {
		return t.fail(asErr(err, HardwareUnavailable, "build application id"))
	}
	appIDBuf = secret.FromBytes(appID)
	secret.Wipe(appID)
	t.advance(ApplicationIDBuilt)

	sb, err := bs.readSpBlob(handle)
	if err != nil {
		return t.fail(asErr(err, BlobCorrupt, "read spblob"))
	}

	keystore := e.pool.Keystore
	keyHandle, err := keystore.GetKey(ctx, alias)
	if err != nil {
		return t.fail(keystoreErrToKind(err))
	}
	envelope, err := keyHandle.Decrypt(ctx, sb.IV[:], nil, sb.CiphertextWithTag)
	if err != nil {
		return t.fail(keystoreErrToKind(err))
	}
	if len(envelope) < gcmIVSize+gcmTagSize {
		return t.fail(wrap(BlobCorrupt, nil, "envelope too short: %d bytes", len(envelope)))
	}
	innerIV := envelope[:gcmIVSize]
	innerPayloadWithTag := envelope[gcmIVSize:]
	t.advance(EnvelopeOpened)

	personalizedAppID := Personalize(labelApplicationID, appIDBuf.Bytes())
	defer secret.Wipe(personalizedAppID[:])
	aesKey := personalizedAppID[:32]

	sp, err := aesGCMDecrypt(aesKey, innerIV, innerPayloadWithTag)
	if err != nil {
		return t.fail(asErr(err, CryptoError, "decrypt inner envelope"))
	}
	spBuf = secret.FromBytes(sp)
	secret.Wipe(sp)
	t.advance(SecretDerived)

	fbeHex, err := fbeSecretHex(sb.Version, spBuf.Bytes())
	if err != nil {
		return t.fail(asErr(err, BlobCorrupt, "derive fbe secret"))
	}

	if e.ce != nil {
		if err := e.ce.UnlockCEStorage(ctx, uid, fbeHex); err != nil {
			return t.fail(wrap(HardwareUnavailable, err, "unlock CE storage"))
		}
		if err := e.ce.PrepareUserStorage(ctx, uid, CEUnlockCEFlag); err != nil {
			return t.fail(wrap(HardwareUnavailable, err, "prepare user storage"))
		}
	}

	t.advance(Unlocked)
	log.FlaggedLogf(flags.EndUser, "unwrap: user %d unlocked", uid)
	return nil
}

// weaverPath computes application_id = password_token || weaver_secret.
func (e *Engine) weaverPath(ctx context.Context, bs *BlobStore, handle string, token []byte) ([]byte, error) {
	wd, err := bs.readWeaverData(handle)
	if err != nil {
		return nil, err
	}
	weaverKey := Personalize(labelWeaverKey, token)
	defer secret.Wipe(weaverKey[:])

	w := e.pool.Weaver
	keySize, err := w.KeySize(ctx)
	if err != nil {
		return nil, wrap(HardwareUnavailable, err, "weaver key size")
	}
	if uint32(len(weaverKey)) != keySize {
		return nil, wrap(BlobCorrupt, nil, "weaver key size mismatch: have %d, want %d", len(weaverKey), keySize)
	}

	res, err := w.Verify(ctx, wd.Slot, weaverKey[:])
	if err != nil {
		return nil, wrap(HardwareUnavailable, err, "weaver verify")
	}
	switch res.Status {
	case hwsvc.WeaverOK:
	case hwsvc.WeaverRetry:
		return nil, retryAfter(res.Timeout)
	case hwsvc.WeaverIncorrect:
		return nil, wrap(CredentialWrong, nil, "weaver rejected key")
	default:
		return nil, wrap(HardwareUnavailable, nil, "weaver error")
	}

	defer secret.Wipe(res.Payload)
	weaverSecret := Personalize(labelWeaverPwd, res.Payload)
	defer secret.Wipe(weaverSecret[:])
	appID := make([]byte, 0, len(token)+len(weaverSecret))
	appID = append(appID, token...)
	appID = append(appID, weaverSecret[:]...)
	return appID, nil
}

// secdisPath computes application_id = password_token || secdiscardable_hash,
// running the gatekeeper step (and forwarding its auth token) unless the
// credential is the default sentinel.
func (e *Engine) secdisPath(ctx context.Context, bs *BlobStore, handle string, uid int, token []byte, isDefault bool) ([]byte, error) {
	secdis, err := bs.readSecDiscardable(handle)
	if err != nil {
		return nil, err
	}
	defer secret.Wipe(secdis)
	secdisHash := Personalize(labelSecdiscardable, secdis)
	defer secret.Wipe(secdisHash[:])

	if !isDefault {
		pd, err := bs.readPasswordData(handle)
		if err != nil {
			return nil, err
		}
		gkToken := Personalize(labelGkAuthentication, token)
		defer secret.Wipe(gkToken[:])
		gk := e.pool.Gatekeeper
		res, err := gk.Verify(ctx, hwsvc.FakeUID(uint32(uid)), pd.Handle, gkToken[:])
		if err != nil {
			return nil, wrap(HardwareUnavailable, err, "gatekeeper verify")
		}
		switch res.Status {
		case hwsvc.GkOK:
			at, err := hwsvc.ParseAuthToken(res.AuthToken)
			if err != nil {
				return nil, wrap(BlobCorrupt, err, "parse hardware auth token")
			}
			if err := e.pool.Authorization.AddAuthToken(ctx, at); err != nil {
				log.FlaggedLogf(flags.NotWire, "unwrap: addAuthToken failed, continuing: %s", err)
			}
		case hwsvc.GkRetry:
			return nil, retryAfter(res.Timeout)
		default:
			return nil, wrap(CredentialWrong, nil, "gatekeeper rejected token")
		}
	}

	appID := make([]byte, 0, len(token)+len(secdisHash))
	appID = append(appID, token...)
	appID = append(appID, secdisHash[:]...)
	return appID, nil
}

// fbeSecretHex computes the final FBE secret for spblob version v from the
// synthetic password sp, hex-encoding the v2 form as the downstream
// CE-unlock call expects a string.
func fbeSecretHex(v byte, sp []byte) (string, error) {
	switch v {
	case 2:
		h := Personalize(labelFbeKey, sp)
		defer secret.Wipe(h[:])
		return hex.EncodeToString(h[:]), nil
	case 3:
		h := PersonalizeSP800(labelFbeKey, sp800ContextFbeKey, sp)
		defer secret.Wipe(h[:])
		return hex.EncodeToString(h[:]), nil
	default:
		return "", wrap(BlobCorrupt, nil, "unsupported spblob version %d", v)
	}
}

// keystoreErrToKind classifies a *hwsvc.KeystoreError into the taxonomy the
// orchestrator's callers switch on.
func keystoreErrToKind(err error) *Error {
	ke, ok := err.(*hwsvc.KeystoreError)
	if !ok {
		return wrap(HardwareUnavailable, err, "keystore")
	}
	switch ke.Class {
	case hwsvc.KeystoreNotFound:
		return wrap(KeyRotated, ke.Err, "keystore entry missing")
	case hwsvc.KeystoreAuthFailed:
		return wrap(CredentialWrong, ke.Err, "keystore auth failed")
	default:
		return wrap(HardwareUnavailable, ke.Err, "keystore error")
	}
}

// asErr coerces err into an *Error, defaulting to fallback if err is not
// already one (e.g. it came from an interface implemented outside this
// package).
func asErr(err error, fallback Kind, format string, args ...interface{}) *Error {
	if e, ok := AsError(err); ok {
		return e
	}
	return wrap(fallback, err, format, args...)
}
