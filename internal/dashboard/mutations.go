package dashboard

import (
	"context"
	"errors"

	"github.com/darkkaiser/competitor-dashboard/pkg/concurrency"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// AddCompetitor 검색 결과의 상품(opID, vendor)을 열려 있는 상품의 경쟁 상품으로 추가합니다.
//
// 추가 요청은 대기열을 통해 한 번에 하나씩, 요청한 순서대로 전송됩니다. 성공하면 검색 결과에 경쟁 상품으로 표시하고
// 잠시 후 요약 정보를 다시 불러옵니다. 요청 중에 다른 상품으로 이동했으면 결과는 화면에 반영하지 않습니다.
func (a *App) AddCompetitor(ctx context.Context, opID, vendor string) error {
	if err := a.requireAuth(ctx); err != nil {
		return newUserError(err, MsgMutationFailure)
	}

	selfID := a.product.ProductID()
	if selfID == "" {
		return newUserError(ErrNoProduct, MsgMutationFailure)
	}

	err := a.addQueue.Do(ctx, func(ctx context.Context) error {
		return a.backend.AddCompetitor(ctx, selfID, opID, vendor)
	})
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"product_id": selfID,
			"op_product": opID,
			"op_vendor":  vendor,
			"error":      err.Error(),
		}).Warn("경쟁 상품 추가 실패")

		if errors.Is(err, concurrency.ErrQueueFull) || errors.Is(err, concurrency.ErrQueueClosed) {
			return &UserError{Kind: ErrorKindFailure, Message: MsgMutationFailure, cause: err}
		}
		return newUserError(a.guard(ctx, err), MsgMutationFailure)
	}

	if a.product.ProductID() != selfID {
		return nil
	}

	a.product.similar.setCompetitor(opID, true)
	a.product.competitors.unmarkRemoved(opID)
	a.product.scheduleRefresh(selfID)

	applog.WithComponentAndFields(component, applog.Fields{
		"product_id": selfID,
		"op_product": opID,
	}).Info("경쟁 상품 추가 완료")

	return nil
}

// DeleteCompetitor 경쟁 상품을 삭제합니다.
//
// 성공하면 목록을 다시 불러오지 않고 화면에서 바로 숨기며, 잠시 후 요약 정보를 다시 불러옵니다.
// 실패하면 목록은 그대로 남습니다.
func (a *App) DeleteCompetitor(ctx context.Context, opID string) error {
	if err := a.requireAuth(ctx); err != nil {
		return newUserError(err, MsgMutationFailure)
	}

	selfID := a.product.ProductID()
	if selfID == "" {
		return newUserError(ErrNoProduct, MsgMutationFailure)
	}

	if err := a.backend.DeleteCompetitor(ctx, selfID, opID); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"product_id": selfID,
			"op_product": opID,
			"error":      err.Error(),
		}).Warn("경쟁 상품 삭제 실패")
		return newUserError(a.guard(ctx, err), MsgMutationFailure)
	}

	if a.product.ProductID() != selfID {
		return nil
	}

	a.product.competitors.markRemoved(opID)
	a.product.similar.setCompetitor(opID, false)
	a.product.scheduleRefresh(selfID)

	applog.WithComponentAndFields(component, applog.Fields{
		"product_id": selfID,
		"op_product": opID,
	}).Info("경쟁 상품 삭제 완료")

	return nil
}
