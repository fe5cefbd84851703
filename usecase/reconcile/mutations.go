package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/foodshare/domain"
)

// mutate calls the API exactly once, reports the outcome and then reloads
// every affected screen whether or not the call succeeded. Reload failures
// are reported by the screens themselves.
func (r *Reconciler) mutate(ctx context.Context, action, success string, call func(ctx context.Context) error, reload []Reloader) error {
	err := call(ctx)
	if err != nil {
		r.checkUnauthorized(ctx, err)
		r.logger.Info("action failed", zap.String("action", action), zap.Error(err))
		r.notifier.Notify(Notification{Level: LevelError, Message: Message(err), Screen: action, Err: err})
	} else {
		r.notifier.Notify(Notification{Level: LevelSuccess, Message: success, Screen: action})
	}

	for _, s := range reload {
		if s == nil {
			continue
		}
		if rerr := s.Reload(ctx); rerr != nil {
			r.logger.Debug("reload after action failed", zap.String("action", action), zap.String("screen", s.Name()), zap.Error(rerr))
		}
	}
	return err
}

// reject reports a failure detected before any call was made.
func (r *Reconciler) reject(action string, err error) error {
	r.notifier.Notify(Notification{Level: LevelError, Message: Message(err), Screen: action, Err: err})
	return err
}

func orDefault(reload []Reloader, defaults ...Reloader) []Reloader {
	if len(reload) > 0 {
		return reload
	}
	return defaults
}

// DeleteFood removes a listing. Defaults to reloading my foods and the dashboard.
func (r *Reconciler) DeleteFood(ctx context.Context, foodID string, reload ...Reloader) error {
	if _, err := r.session(); err != nil {
		return r.reject("delete-food", err)
	}
	return r.mutate(ctx, "delete-food", "Food item deleted", func(ctx context.Context) error {
		return r.api.DeleteFood(ctx, foodID)
	}, orDefault(reload, r.myFoods, r.dashboard))
}

// CancelRequest cancels one of the caller's requests.
func (r *Reconciler) CancelRequest(ctx context.Context, requestID string, reload ...Reloader) error {
	if _, err := r.session(); err != nil {
		return r.reject("cancel-request", err)
	}
	return r.mutate(ctx, "cancel-request", "Request cancelled", func(ctx context.Context) error {
		return r.api.CancelRequest(ctx, requestID)
	}, orDefault(reload, r.myRequests, r.dashboard))
}

// Match pairs a food item with a nearby request. The client only reloads; it
// never models the intermediate state.
func (r *Reconciler) Match(ctx context.Context, foodID, requestID string, reload ...Reloader) error {
	if _, err := r.session(); err != nil {
		return r.reject("match", err)
	}
	return r.mutate(ctx, "match", "Food matched with request", func(ctx context.Context) error {
		return r.api.Match(ctx, foodID, requestID)
	}, orDefault(reload, r.myFoods, r.nearby, r.dashboard, r.transactions))
}

// AcceptFood claims a food item as the current receiver.
func (r *Reconciler) AcceptFood(ctx context.Context, foodID, requestID string, reload ...Reloader) error {
	s, err := r.session()
	if err != nil {
		return r.reject("accept-food", err)
	}
	return r.mutate(ctx, "accept-food", "Food accepted", func(ctx context.Context) error {
		return r.api.AcceptFood(ctx, foodID, s.UserID, requestID)
	}, orDefault(reload, r.dashboard, r.transactions))
}

// AddFood lists a new item as the current donor.
func (r *Reconciler) AddFood(ctx context.Context, f domain.NewFood, reload ...Reloader) error {
	s, err := r.session()
	if err != nil {
		return r.reject("add-food", err)
	}
	f.DonorID = s.UserID
	if err := f.Validate(); err != nil {
		return r.reject("add-food", err)
	}
	return r.mutate(ctx, "add-food", "Food item added", func(ctx context.Context) error {
		_, err := r.api.AddFood(ctx, f)
		return err
	}, orDefault(reload, r.myFoods, r.dashboard))
}

func (r *Reconciler) UpdateFood(ctx context.Context, foodID string, u domain.FoodUpdate, reload ...Reloader) error {
	if _, err := r.session(); err != nil {
		return r.reject("update-food", err)
	}
	if err := u.Validate(); err != nil {
		return r.reject("update-food", err)
	}
	return r.mutate(ctx, "update-food", "Food item updated", func(ctx context.Context) error {
		return r.api.UpdateFood(ctx, foodID, u)
	}, orDefault(reload, r.myFoods, r.dashboard))
}

// CreateRequest posts a new request as the current receiver.
func (r *Reconciler) CreateRequest(ctx context.Context, req domain.NewRequest, reload ...Reloader) error {
	s, err := r.session()
	if err != nil {
		return r.reject("create-request", err)
	}
	req.ReceiverID = s.UserID
	if err := req.Validate(); err != nil {
		return r.reject("create-request", err)
	}
	return r.mutate(ctx, "create-request", "Request created", func(ctx context.Context) error {
		_, err := r.api.CreateRequest(ctx, req)
		return err
	}, orDefault(reload, r.myRequests, r.dashboard))
}

func (r *Reconciler) UpdateRequest(ctx context.Context, requestID string, u domain.RequestUpdate, reload ...Reloader) error {
	if _, err := r.session(); err != nil {
		return r.reject("update-request", err)
	}
	if err := u.Validate(); err != nil {
		return r.reject("update-request", err)
	}
	return r.mutate(ctx, "update-request", "Request updated", func(ctx context.Context) error {
		return r.api.UpdateRequest(ctx, requestID, u)
	}, orDefault(reload, r.myRequests, r.dashboard))
}

func (r *Reconciler) UpdateProfile(ctx context.Context, u domain.ProfileUpdate, reload ...Reloader) error {
	s, err := r.session()
	if err != nil {
		return r.reject("update-profile", err)
	}
	if u.Empty() {
		return r.reject("update-profile", domain.Invalid("nothing to update"))
	}
	return r.mutate(ctx, "update-profile", "Profile updated", func(ctx context.Context) error {
		return r.api.UpdateProfile(ctx, s.UserID, u)
	}, orDefault(reload, r.profile))
}

// CreateTransaction records a direct claim of a food item. The current user
// fills whichever side of the transaction was left empty.
func (r *Reconciler) CreateTransaction(ctx context.Context, t domain.NewTransaction, reload ...Reloader) error {
	s, err := r.session()
	if err != nil {
		return r.reject("create-transaction", err)
	}
	if t.DonorID == "" && s.Roles.Has(domain.RoleDonor) {
		t.DonorID = s.UserID
	}
	if t.ReceiverID == "" && s.Roles.Has(domain.RoleReceiver) {
		t.ReceiverID = s.UserID
	}
	if err := t.Validate(); err != nil {
		return r.reject("create-transaction", err)
	}
	return r.mutate(ctx, "create-transaction", "Transaction created", func(ctx context.Context) error {
		_, err := r.api.CreateTransaction(ctx, t)
		return err
	}, orDefault(reload, r.transactions, r.dashboard))
}

func (r *Reconciler) UpdateTransactionStatus(ctx context.Context, txnID, status string, reload ...Reloader) error {
	if _, err := r.session(); err != nil {
		return r.reject("update-transaction", err)
	}
	if status == "" {
		return r.reject("update-transaction", domain.Invalid("status is required"))
	}
	return r.mutate(ctx, "update-transaction", "Transaction updated", func(ctx context.Context) error {
		return r.api.UpdateTransactionStatus(ctx, txnID, status)
	}, orDefault(reload, r.transactions))
}
