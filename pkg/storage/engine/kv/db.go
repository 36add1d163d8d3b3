package kv

import (
	"encoding/binary"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/ironkv/ironkv/pkg/storage/store"
	"github.com/ironkv/ironkv/pkg/storage/typeclass"
)

// DB is the generic store.DB implementation shared by every backend.
// Every exported method except ZAdd takes d.mu itself, for the
// duration of its own call, so that it serializes against another
// connection's held Multi/Exec bracket on the same logical database.
//
// ZAdd is the one command the dispatcher brackets with Multi/Exec/
// Discard; it assumes the caller already holds d.mu via Multi and
// never locks on its own, so it must never be called outside a
// Multi/Exec (or Discard) pair.
type DB struct {
	backend Backend
	name    string

	mu      sync.Mutex
	inMulti bool
	staged  []mutation
}

type mutation struct {
	del bool
	key []byte
	val []byte
}

func (d *DB) writeKV(key, val []byte) error {
	if d.inMulti {
		d.staged = append(d.staged, mutation{key: append([]byte{}, key...), val: append([]byte{}, val...)})
		return nil
	}
	return d.backend.Put(key, val)
}

func (d *DB) deleteKV(key []byte) error {
	if d.inMulti {
		d.staged = append(d.staged, mutation{del: true, key: append([]byte{}, key...)})
		return nil
	}
	return d.backend.Delete(key)
}

func (d *DB) Multi() {
	d.mu.Lock()
	d.inMulti = true
	d.staged = d.staged[:0]
}

func (d *DB) Exec() error {
	defer func() {
		d.inMulti = false
		d.staged = nil
		d.mu.Unlock()
	}()
	for _, m := range d.staged {
		if m.del {
			if err := d.backend.Delete(m.key); err != nil {
				return err
			}
			continue
		}
		if err := d.backend.Put(m.key, m.val); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) Discard() {
	d.inMulti = false
	d.staged = nil
	d.mu.Unlock()
}

// ---- expiry (strings only) ----

func (d *DB) expireDeadline(key []byte) (time.Time, bool) {
	raw, err := d.backend.Get(expireKey(d.name, key))
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(raw))), true
}

func (d *DB) isExpired(key []byte) bool {
	deadline, ok := d.expireDeadline(key)
	return ok && !time.Now().Before(deadline)
}

func (d *DB) clearExpired(key []byte) {
	d.backend.Delete(stringKey(d.name, key))
	d.backend.Delete(expireKey(d.name, key))
}

func (d *DB) setExpireAt(key []byte, deadline time.Time) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(deadline.UnixNano()))
	return d.backend.Put(expireKey(d.name, key), buf[:])
}

// ---- strings ----

func (d *DB) Get(key []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.getLocked(key)
}

func (d *DB) getLocked(key []byte) ([]byte, error) {
	if d.isExpired(key) {
		d.clearExpired(key)
		return nil, store.ErrNotFound
	}
	v, err := d.backend.Get(stringKey(d.name, key))
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (d *DB) existsLocked(key []byte) bool {
	_, err := d.getLocked(key)
	if err == nil {
		return true
	}
	if d.hashLenLocked(key) > 0 || d.setCardLocked(key) > 0 {
		return true
	}
	if _, zerr := d.zCardLocked(key); zerr == nil {
		return true
	}
	return false
}

func (d *DB) Set(key, val []byte, opts store.SetOptions) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exists := d.existsLocked(key)
	switch opts.Precondition {
	case store.PrecondNX:
		if exists {
			return false, nil
		}
	case store.PrecondXX:
		if !exists {
			return false, nil
		}
	}
	if err := d.backend.Put(stringKey(d.name, key), val); err != nil {
		return false, err
	}
	if opts.HasExpire {
		var deadline time.Time
		if opts.Millis {
			deadline = time.Now().Add(time.Duration(opts.ExpireMillis) * time.Millisecond)
		} else {
			deadline = time.Now().Add(time.Duration(opts.ExpireSeconds) * time.Second)
		}
		if err := d.setExpireAt(key, deadline); err != nil {
			return false, err
		}
	} else {
		d.backend.Delete(expireKey(d.name, key))
	}
	return true, nil
}

func (d *DB) SetRange(key []byte, offset int64, val []byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur, err := d.getLocked(key)
	if err != nil && err != store.ErrNotFound {
		return 0, err
	}
	need := offset + int64(len(val))
	out := make([]byte, maxInt64(need, int64(len(cur))))
	copy(out, cur)
	copy(out[offset:], val)
	if err := d.backend.Put(stringKey(d.name, key), out); err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

func (d *DB) Append(key, val []byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur, err := d.getLocked(key)
	if err != nil && err != store.ErrNotFound {
		return 0, err
	}
	out := append(append([]byte{}, cur...), val...)
	if err := d.backend.Put(stringKey(d.name, key), out); err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

func (d *DB) Strlen(key []byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getLocked(key)
	if err == store.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int64(len(v)), nil
}

func (d *DB) GetRange(key []byte, start, end int64) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getLocked(key)
	if err == store.ErrNotFound {
		return []byte{}, nil
	}
	if err != nil {
		return nil, err
	}
	s, e := clampRange(start, end, int64(len(v)))
	if s > e {
		return []byte{}, nil
	}
	return v[s : e+1], nil
}

func (d *DB) GetSet(key, val []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	old, err := d.getLocked(key)
	if err != nil && err != store.ErrNotFound {
		return nil, err
	}
	if perr := d.backend.Put(stringKey(d.name, key), val); perr != nil {
		return nil, perr
	}
	d.backend.Delete(expireKey(d.name, key))
	if err == store.ErrNotFound {
		return nil, store.ErrNotFound
	}
	return old, nil
}

func (d *DB) MGet(keys [][]byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		v, err := d.getLocked(k)
		if err != nil {
			out[i] = nil
			continue
		}
		out[i] = v
	}
	return out, nil
}

func (d *DB) MSet(pairs [][2][]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range pairs {
		if err := d.backend.Put(stringKey(d.name, p[0]), p[1]); err != nil {
			return err
		}
		d.backend.Delete(expireKey(d.name, p[0]))
	}
	return nil
}

func (d *DB) MSetNX(pairs [][2][]byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range pairs {
		if d.existsLocked(p[0]) {
			return false, nil
		}
	}
	for _, p := range pairs {
		if err := d.backend.Put(stringKey(d.name, p[0]), p[1]); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *DB) IncrBy(key []byte, delta int64) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getLocked(key)
	cur := int64(0)
	if err == nil {
		n, perr := strconv.ParseInt(string(v), 10, 64)
		if perr != nil {
			return 0, store.ErrNotInteger
		}
		cur = n
	} else if err != store.ErrNotFound {
		return 0, err
	}
	next := cur + delta
	if err := d.backend.Put(stringKey(d.name, key), []byte(typeclass.Int(next).String())); err != nil {
		return 0, err
	}
	return next, nil
}

func (d *DB) IncrByFloat(key []byte, delta float64) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getLocked(key)
	cur := 0.0
	if err == nil {
		f, perr := strconv.ParseFloat(string(v), 64)
		if perr != nil {
			return 0, store.ErrNotFloat
		}
		cur = f
	} else if err != store.ErrNotFound {
		return 0, err
	}
	next := cur + delta
	if err := d.backend.Put(stringKey(d.name, key), []byte(typeclass.Float(next).String())); err != nil {
		return 0, err
	}
	return next, nil
}

// ---- bits ----

func (d *DB) GetBit(key []byte, offset int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getLocked(key)
	if err == store.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	byteIdx := offset / 8
	if byteIdx >= int64(len(v)) {
		return 0, nil
	}
	bitIdx := uint(7 - offset%8)
	return int((v[byteIdx] >> bitIdx) & 1), nil
}

func (d *DB) SetBit(key []byte, offset int64, bit int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getLocked(key)
	if err != nil && err != store.ErrNotFound {
		return 0, err
	}
	byteIdx := offset / 8
	if int64(len(v)) <= byteIdx {
		grown := make([]byte, byteIdx+1)
		copy(grown, v)
		v = grown
	} else {
		v = append([]byte{}, v...)
	}
	bitIdx := uint(7 - offset%8)
	old := int((v[byteIdx] >> bitIdx) & 1)
	if bit != 0 {
		v[byteIdx] |= 1 << bitIdx
	} else {
		v[byteIdx] &^= 1 << bitIdx
	}
	if err := d.backend.Put(stringKey(d.name, key), v); err != nil {
		return 0, err
	}
	return old, nil
}

func (d *DB) BitCount(key []byte, start, end int64, hasRange bool) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getLocked(key)
	if err == store.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if !hasRange {
		start, end = 0, int64(len(v))-1
	}
	s, e := clampRange(start, end, int64(len(v)))
	if s > e {
		return 0, nil
	}
	var count int64
	for _, b := range v[s : e+1] {
		count += int64(popcount(b))
	}
	return count, nil
}

func (d *DB) BitOp(op string, dst []byte, srcs [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vals := make([][]byte, len(srcs))
	maxLen := 0
	for i, s := range srcs {
		v, err := d.getLocked(s)
		if err != nil && err != store.ErrNotFound {
			return 0, err
		}
		vals[i] = v
		if len(v) > maxLen {
			maxLen = len(v)
		}
	}
	out := make([]byte, maxLen)
	switch op {
	case "AND":
		for i := range out {
			out[i] = 0xFF
		}
		for _, v := range vals {
			for i := 0; i < maxLen; i++ {
				var b byte
				if i < len(v) {
					b = v[i]
				}
				out[i] &= b
			}
		}
	case "OR":
		for _, v := range vals {
			for i := 0; i < len(v); i++ {
				out[i] |= v[i]
			}
		}
	case "XOR":
		for _, v := range vals {
			for i := 0; i < len(v); i++ {
				out[i] ^= v[i]
			}
		}
	case "NOT":
		v := vals[0]
		for i := range out {
			var b byte
			if i < len(v) {
				b = v[i]
			}
			out[i] = ^b
		}
	}
	if err := d.backend.Put(stringKey(d.name, dst), out); err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

// ---- hashes ----

func (d *DB) HSet(key, field, val []byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := hashFieldKey(d.name, key, field)
	_, err := d.backend.Get(k)
	created := err == store.ErrNotFound
	if err := d.backend.Put(k, val); err != nil {
		return false, err
	}
	return created, nil
}

func (d *DB) HSetNX(key, field, val []byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := hashFieldKey(d.name, key, field)
	if _, err := d.backend.Get(k); err == nil {
		return false, nil
	}
	if err := d.backend.Put(k, val); err != nil {
		return false, err
	}
	return true, nil
}

func (d *DB) HGet(key, field []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.backend.Get(hashFieldKey(d.name, key, field))
}

func (d *DB) HMSet(key []byte, pairs [][2][]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range pairs {
		if err := d.backend.Put(hashFieldKey(d.name, key, p[0]), p[1]); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) HMGet(key []byte, fields [][]byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(fields))
	for i, f := range fields {
		v, err := d.backend.Get(hashFieldKey(d.name, key, f))
		if err != nil {
			out[i] = nil
			continue
		}
		out[i] = v
	}
	return out, nil
}

func (d *DB) hashScanLocked(key []byte) [][2][]byte {
	it := d.backend.Iterator(hashPrefix(d.name, key))
	defer it.Release()
	prefix := hashPrefix(d.name, key)
	var out [][2][]byte
	for it.Next() {
		field, ok := keySegmentAfterPrefix(it.Key(), len(prefix))
		if !ok {
			continue
		}
		out = append(out, [2][]byte{append([]byte{}, field...), append([]byte{}, it.Value()...)})
	}
	return out
}

func (d *DB) HGetAll(key []byte) ([][2][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hashScanLocked(key), nil
}

func (d *DB) HKeys(key []byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fvs := d.hashScanLocked(key)
	out := make([][]byte, len(fvs))
	for i, fv := range fvs {
		out[i] = fv[0]
	}
	return out, nil
}

func (d *DB) HVals(key []byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fvs := d.hashScanLocked(key)
	out := make([][]byte, len(fvs))
	for i, fv := range fvs {
		out[i] = fv[1]
	}
	return out, nil
}

func (d *DB) hashLenLocked(key []byte) int64 {
	return int64(len(d.hashScanLocked(key)))
}

func (d *DB) HLen(key []byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hashLenLocked(key), nil
}

func (d *DB) HExists(key, field []byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.backend.Get(hashFieldKey(d.name, key, field))
	return err == nil, nil
}

func (d *DB) HDel(key []byte, fields [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, f := range fields {
		k := hashFieldKey(d.name, key, f)
		if _, err := d.backend.Get(k); err == nil {
			d.backend.Delete(k)
			n++
		}
	}
	return n, nil
}

func (d *DB) HIncrBy(key, field []byte, delta int64) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := hashFieldKey(d.name, key, field)
	cur := int64(0)
	if v, err := d.backend.Get(k); err == nil {
		n, perr := strconv.ParseInt(string(v), 10, 64)
		if perr != nil {
			return 0, store.ErrNotInteger
		}
		cur = n
	}
	next := cur + delta
	if err := d.backend.Put(k, []byte(typeclass.Int(next).String())); err != nil {
		return 0, err
	}
	return next, nil
}

func (d *DB) HIncrByFloat(key, field []byte, delta float64) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := hashFieldKey(d.name, key, field)
	cur := 0.0
	if v, err := d.backend.Get(k); err == nil {
		f, perr := strconv.ParseFloat(string(v), 64)
		if perr != nil {
			return 0, store.ErrNotFloat
		}
		cur = f
	}
	next := cur + delta
	if err := d.backend.Put(k, []byte(typeclass.Float(next).String())); err != nil {
		return 0, err
	}
	return next, nil
}

// ---- sets ----

func (d *DB) setScanLocked(key []byte) [][]byte {
	prefix := setPrefix(d.name, key)
	it := d.backend.Iterator(prefix)
	defer it.Release()
	var out [][]byte
	for it.Next() {
		member, ok := keySegmentAfterPrefix(it.Key(), len(prefix))
		if !ok {
			continue
		}
		out = append(out, append([]byte{}, member...))
	}
	return out
}

func (d *DB) setCardLocked(key []byte) int64 {
	return int64(len(d.setScanLocked(key)))
}

func (d *DB) SAdd(key []byte, members [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, m := range members {
		k := setMemberKey(d.name, key, m)
		if _, err := d.backend.Get(k); err == store.ErrNotFound {
			if err := d.backend.Put(k, []byte{}); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (d *DB) SCard(key []byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setCardLocked(key), nil
}

func (d *DB) SIsMember(key, member []byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.backend.Get(setMemberKey(d.name, key, member))
	return err == nil, nil
}

func (d *DB) SMembers(key []byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setScanLocked(key), nil
}

func (d *DB) SMove(src, dst, member []byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := setMemberKey(d.name, src, member)
	if _, err := d.backend.Get(k); err != nil {
		return false, nil
	}
	d.backend.Delete(k)
	d.backend.Put(setMemberKey(d.name, dst, member), []byte{})
	return true, nil
}

func (d *DB) SPop(key []byte, count int64) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.setScanLocked(key)
	if count > int64(len(members)) {
		count = int64(len(members))
	}
	rand.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
	picked := members[:count]
	for _, m := range picked {
		d.backend.Delete(setMemberKey(d.name, key, m))
	}
	return picked, nil
}

func (d *DB) SRandMember(key []byte, count int64) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.setScanLocked(key)
	if count > int64(len(members)) {
		count = int64(len(members))
	}
	rand.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
	return members[:count], nil
}

func (d *DB) SRem(key []byte, members [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, m := range members {
		k := setMemberKey(d.name, key, m)
		if _, err := d.backend.Get(k); err == nil {
			d.backend.Delete(k)
			n++
		}
	}
	return n, nil
}

func setOf(members [][]byte) map[string]struct{} {
	m := make(map[string]struct{}, len(members))
	for _, x := range members {
		m[string(x)] = struct{}{}
	}
	return m
}

func (d *DB) SDiff(keys [][]byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setDiffLocked(keys), nil
}

func (d *DB) setDiffLocked(keys [][]byte) [][]byte {
	if len(keys) == 0 {
		return [][]byte{}
	}
	result := setOf(d.setScanLocked(keys[0]))
	for _, k := range keys[1:] {
		for _, m := range d.setScanLocked(k) {
			delete(result, string(m))
		}
	}
	return toByteSlices(result)
}

func (d *DB) SDiffStore(dst []byte, keys [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.setDiffLocked(keys)
	return d.storeSetLocked(dst, members), nil
}

func (d *DB) setInterLocked(keys [][]byte) [][]byte {
	if len(keys) == 0 {
		return [][]byte{}
	}
	result := setOf(d.setScanLocked(keys[0]))
	for _, k := range keys[1:] {
		cur := setOf(d.setScanLocked(k))
		for m := range result {
			if _, ok := cur[m]; !ok {
				delete(result, m)
			}
		}
	}
	return toByteSlices(result)
}

func (d *DB) SInter(keys [][]byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setInterLocked(keys), nil
}

func (d *DB) SInterStore(dst []byte, keys [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.setInterLocked(keys)
	return d.storeSetLocked(dst, members), nil
}

func (d *DB) setUnionLocked(keys [][]byte) [][]byte {
	result := map[string]struct{}{}
	for _, k := range keys {
		for _, m := range d.setScanLocked(k) {
			result[string(m)] = struct{}{}
		}
	}
	return toByteSlices(result)
}

func (d *DB) SUnion(keys [][]byte) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setUnionLocked(keys), nil
}

func (d *DB) SUnionStore(dst []byte, keys [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.setUnionLocked(keys)
	return d.storeSetLocked(dst, members), nil
}

func (d *DB) storeSetLocked(dst []byte, members [][]byte) int64 {
	for _, m := range d.setScanLocked(dst) {
		d.backend.Delete(setMemberKey(d.name, dst, m))
	}
	for _, m := range members {
		d.backend.Put(setMemberKey(d.name, dst, m), []byte{})
	}
	return int64(len(members))
}

func toByteSlices(m map[string]struct{}) [][]byte {
	out := make([][]byte, 0, len(m))
	for k := range m {
		out = append(out, []byte(k))
	}
	return out
}

// ---- sorted sets ----
//
// ZAdd never locks d.mu itself: the zadd handler always calls it
// between Multi() and Exec()/Discard(), which already hold the lock.

func (d *DB) ZAdd(key []byte, members []store.ZMember) (int64, error) {
	var added int64
	for _, m := range members {
		scoreKey := zScoreKey(d.name, key, m.Member)
		if old, err := d.backend.Get(scoreKey); err == nil {
			oldScore := decodeOrderedScore(old)
			if oldScore == m.Score {
				continue
			}
			prefix := zOrderPrefix(d.name, key)
			d.deleteKV(zOrderKeyFromPrefix(prefix, oldScore, m.Member))
		} else {
			added++
		}
		sb := encodeOrderedScore(m.Score)
		if err := d.writeKV(scoreKey, sb[:]); err != nil {
			return added, err
		}
		if err := d.writeKV(zOrderKey(d.name, key, m.Score, m.Member), []byte{}); err != nil {
			return added, err
		}
	}
	return added, nil
}

func zOrderKeyFromPrefix(prefix []byte, score float64, member []byte) []byte {
	sb := encodeOrderedScore(score)
	out := make([]byte, 0, len(prefix)+8+len(member))
	out = append(out, prefix...)
	out = append(out, sb[:]...)
	out = append(out, member...)
	return out
}

func (d *DB) zCardLocked(key []byte) (int64, error) {
	prefix := zOrderPrefix(d.name, key)
	it := d.backend.Iterator(prefix)
	defer it.Release()
	var n int64
	for it.Next() {
		n++
	}
	if n == 0 {
		return 0, store.ErrNotFound
	}
	return n, nil
}

func (d *DB) ZCard(key []byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.zCardLocked(key)
	if err == store.ErrNotFound {
		return 0, nil
	}
	return n, err
}

func (d *DB) ZCount(key []byte, min, max float64) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := zOrderPrefix(d.name, key)
	it := d.backend.Iterator(prefix)
	defer it.Release()
	var n int64
	for it.Next() {
		score := decodeOrderedScore(it.Key()[len(prefix) : len(prefix)+8])
		if score >= min && score <= max {
			n++
		}
	}
	return n, nil
}

func (d *DB) ZIncrBy(key, member []byte, delta float64) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := 0.0
	scoreKey := zScoreKey(d.name, key, member)
	if old, err := d.backend.Get(scoreKey); err == nil {
		cur = decodeOrderedScore(old)
		d.backend.Delete(zOrderKey(d.name, key, cur, member))
	}
	next := cur + delta
	sb := encodeOrderedScore(next)
	if err := d.backend.Put(scoreKey, sb[:]); err != nil {
		return 0, err
	}
	if err := d.backend.Put(zOrderKey(d.name, key, next, member), []byte{}); err != nil {
		return 0, err
	}
	return next, nil
}

func (d *DB) ZRange(key []byte, start, stop int64) ([]store.ZMember, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := zOrderPrefix(d.name, key)
	it := d.backend.Iterator(prefix)
	defer it.Release()

	var all []store.ZMember
	for it.Next() {
		score := decodeOrderedScore(it.Key()[len(prefix) : len(prefix)+8])
		member := append([]byte{}, it.Key()[len(prefix)+8:]...)
		all = append(all, store.ZMember{Member: member, Score: score})
	}
	n := int64(len(all))
	s, e := normalizeRank(start, n), normalizeRank(stop, n)
	if s > e || n == 0 {
		return []store.ZMember{}, nil
	}
	if e >= n {
		e = n - 1
	}
	return all[s : e+1], nil
}

func (d *DB) ZScore(key, member []byte) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.backend.Get(zScoreKey(d.name, key, member))
	if err != nil {
		return 0, err
	}
	return decodeOrderedScore(v), nil
}

// ---- keyspace ----

func (d *DB) Type(key []byte) (store.KeyType, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.getLocked(key); err == nil {
		return store.TypeString, nil
	}
	if d.hashLenLocked(key) > 0 {
		return store.TypeHash, nil
	}
	if d.setCardLocked(key) > 0 {
		return store.TypeSet, nil
	}
	if n, err := d.zCardLocked(key); err == nil && n > 0 {
		return store.TypeZSet, nil
	}
	return store.TypeNone, nil
}

func (d *DB) Exists(keys [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, k := range keys {
		if d.existsLocked(k) {
			n++
		}
	}
	return n, nil
}

func (d *DB) Del(keys [][]byte) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, k := range keys {
		removed := false
		if _, err := d.getLocked(k); err == nil {
			d.backend.Delete(stringKey(d.name, k))
			d.backend.Delete(expireKey(d.name, k))
			removed = true
		}
		for _, fv := range d.hashScanLocked(k) {
			d.backend.Delete(hashFieldKey(d.name, k, fv[0]))
			removed = true
		}
		for _, m := range d.setScanLocked(k) {
			d.backend.Delete(setMemberKey(d.name, k, m))
			removed = true
		}
		prefix := zOrderPrefix(d.name, k)
		it := d.backend.Iterator(prefix)
		var zkeys [][]byte
		for it.Next() {
			zkeys = append(zkeys, append([]byte{}, it.Key()...))
			removed = true
		}
		it.Release()
		for _, zk := range zkeys {
			d.backend.Delete(zk)
			member := zk[len(prefix)+8:]
			d.backend.Delete(zScoreKey(d.name, k, member))
		}
		if removed {
			n++
		}
	}
	return n, nil
}

func (d *DB) Persist(key []byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.expireDeadline(key); !ok {
		return false, nil
	}
	d.backend.Delete(expireKey(d.name, key))
	return true, nil
}

func (d *DB) Expire(key []byte, seconds int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.getLocked(key); err != nil {
		return false, nil
	}
	if err := d.setExpireAt(key, time.Now().Add(time.Duration(seconds)*time.Second)); err != nil {
		return false, err
	}
	return true, nil
}

func (d *DB) ExpireAt(key []byte, unixSeconds int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.getLocked(key); err != nil {
		return false, nil
	}
	if err := d.setExpireAt(key, time.Unix(unixSeconds, 0)); err != nil {
		return false, err
	}
	return true, nil
}

// KeyCount scans the database's string, hash, set, and zset
// namespaces and reports the number of distinct top-level keys,
// for pkg/info's per-database key count. It satisfies
// pkg/info.KeyCounter.
func (d *DB) KeyCount() (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	seen := map[string]struct{}{}
	for _, tag := range []byte{tagString, tagHashField, tagSetMember, tagZOrder} {
		for _, k := range d.namespaceKeysLocked(tag) {
			seen[string(k)] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

// namespaceKeysLocked returns the distinct logical keys stored under
// tag for this database, decoding the length-prefixed key segment
// that follows the tag+db prefix every key in keys.go carries.
func (d *DB) namespaceKeysLocked(tag byte) [][]byte {
	prefix := dbPrefix(tag, d.name)
	it := d.backend.Iterator(prefix)
	defer it.Release()

	var out [][]byte
	for it.Next() {
		key, ok := keySegmentAfterPrefix(it.Key(), len(prefix))
		if ok {
			out = append(out, key)
		}
	}
	return out
}

// ---- helpers ----

func clampRange(start, end, length int64) (int64, int64) {
	if start < 0 {
		start += length
	}
	if end < 0 {
		end += length
	}
	if start < 0 {
		start = 0
	}
	if end >= length {
		end = length - 1
	}
	return start, end
}

func normalizeRank(idx, length int64) int64 {
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}
