package identity

import (
	"context"
	"fmt"
	"sync"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
)

// ログイン状態の変化。Seqは変化ごとに1ずつ増える。
type Event struct {
	Seq  uint64
	User *Identity
}

type Listener func(Event)

// popupの結果（クライアントから受け取る）
type Popup struct {
	AccessToken string `json:"access_token"`
	Blocked     bool   `json:"blocked"`
	Closed      bool   `json:"closed"`
}

type subscriber struct {
	id int
	fn Listener
}

type delivery struct {
	ev Event
	to int // 0なら全員
}

// Auth は1クライアント分のサインイン状態。
// 通知は専用goroutineが登録順・発生順に配る。
type Auth struct {
	svc *Service
	key string

	mu          sync.Mutex
	current     *Identity
	token       string
	persistence Persistence
	seq         uint64
	subs        []subscriber
	nextID      int
	queue       []delivery
	closed      bool

	wake chan struct{}
	done chan struct{}
}

// NewAuth はkeyのクライアント用のAuthを作る。tokenが有効ならその状態から始まる。
func (s *Service) NewAuth(ctx context.Context, key string, token string) *Auth {
	restored, p := s.restore(ctx, token)
	a := &Auth{
		svc:         s,
		key:         key,
		current:     restored,
		persistence: p,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	if restored != nil {
		a.token = s.issue(*restored, p)
	}
	go a.run()
	return a
}

func (a *Auth) run() {
	for {
		select {
		case <-a.wake:
		case <-a.done:
			return
		}
		for {
			d, fns, ok := a.next()
			if !ok {
				break
			}
			for _, fn := range fns {
				fn(d.ev)
			}
		}
	}
}

func (a *Auth) next() (delivery, []Listener, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || len(a.queue) == 0 {
		return delivery{}, nil, false
	}
	d := a.queue[0]
	a.queue = a.queue[1:]

	var fns []Listener
	for _, s := range a.subs {
		if d.to == 0 || d.to == s.id {
			fns = append(fns, s.fn)
		}
	}
	return d, fns, true
}

func (a *Auth) signal() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// OnAuthStateChanged は購読を登録する。登録直後に現在の状態が1回届く。
func (a *Auth) OnAuthStateChanged(fn Listener) (unsubscribe func()) {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.subs = append(a.subs, subscriber{id: id, fn: fn})
	a.queue = append(a.queue, delivery{ev: Event{Seq: a.seq, User: cloneIdentity(a.current)}, to: id})
	a.mu.Unlock()
	a.signal()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			for i, s := range a.subs {
				if s.id == id {
					a.subs = append(a.subs[:i], a.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// 状態を変えて通知を積む
func (a *Auth) setCurrent(ident *Identity) uint64 {
	a.mu.Lock()
	a.current = cloneIdentity(ident)
	if ident != nil {
		a.token = a.svc.issue(*ident, a.persistence)
	} else {
		a.token = ""
	}
	a.seq++
	seq := a.seq
	a.queue = append(a.queue, delivery{ev: Event{Seq: seq, User: cloneIdentity(ident)}})
	a.mu.Unlock()
	a.signal()
	return seq
}

// 戻り値のseqの通知でサインイン後の状態が届く
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (uint64, error) {
	ident, err := a.svc.verifyPassword(ctx, email, password)
	if err != nil {
		return 0, err
	}
	return a.setCurrent(&ident), nil
}

// 作成後はそのままサインイン状態になる
func (a *Auth) CreateUserWithPassword(ctx context.Context, email, password string) (uint64, error) {
	ident, err := a.svc.createPasswordAccount(ctx, email, password)
	if err != nil {
		return 0, err
	}
	return a.setCurrent(&ident), nil
}

func (a *Auth) SignInWithPopup(ctx context.Context, kind model.AuthProvider, popup Popup) (uint64, error) {
	if _, err := a.svc.provider(kind); err != nil {
		return 0, err
	}
	if popup.Blocked {
		return 0, apperr.NewAuthError(apperr.AuthPopupBlocked, "")
	}
	if popup.Closed || popup.AccessToken == "" {
		return 0, apperr.NewAuthError(apperr.AuthPopupClosed, "")
	}
	ident, err := a.svc.signInWithAccessToken(ctx, kind, popup.AccessToken)
	if err != nil {
		return 0, err
	}
	return a.setCurrent(&ident), nil
}

// プロバイダへの遷移先URL
func (a *Auth) SignInWithRedirect(ctx context.Context, kind model.AuthProvider) (string, error) {
	return a.svc.BeginRedirect(ctx, kind, a.key)
}

// GetRedirectResult は保留中のredirect結果を1回だけ取り出す。
// 結果が無ければ (nil, 0, nil)。
func (a *Auth) GetRedirectResult(ctx context.Context) (*Identity, uint64, error) {
	res, ok, err := a.svc.redirects.TakeResult(ctx, a.key)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, nil
	}
	if err := res.Err(); err != nil {
		return nil, 0, err
	}
	if res.Identity == nil {
		return nil, 0, nil
	}
	seq := a.setCurrent(res.Identity)
	return cloneIdentity(res.Identity), seq, nil
}

func (a *Auth) SignOut() uint64 {
	return a.setCurrent(nil)
}

// 保存モードの変更。サインイン中ならトークンを発行し直す。
func (a *Auth) SetPersistence(p Persistence) error {
	if !p.Valid() {
		return fmt.Errorf("unknown persistence %q", p)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.persistence = p
	if a.current != nil {
		a.token = a.svc.issue(*a.current, p)
	}
	return nil
}

// 現在のIDトークンと保存モード。PersistenceNoneなら空。
func (a *Auth) Token() (string, Persistence) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token, a.persistence
}

func (a *Auth) CurrentUser() *Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneIdentity(a.current)
}

func (a *Auth) Key() string { return a.key }

// 以降の通知は配られない
func (a *Auth) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.subs = nil
	a.queue = nil
	close(a.done)
}

func cloneIdentity(i *Identity) *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
