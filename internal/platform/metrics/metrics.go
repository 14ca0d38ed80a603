package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "life_gacha"

var (
	// Pulls 按档位统计已完成的抽取次数
	Pulls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pulls_total",
		Help:      "已完成的抽取次数，按档位区分。",
	}, []string{"rarity"})

	// PullRejections 统计因资金不足被拒绝的抽取
	PullRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pull_rejections_total",
		Help:      "因抽取券与星辉均不足而被拒绝的抽取次数。",
	})

	VouchersGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_granted_total",
		Help:      "发放的兑换券数量，按来源区分。",
	}, []string{"source"})

	TimerPayout = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timer_payout_astrum_total",
		Help:      "计时器结算发放的星辉总量，按类别区分。",
	}, []string{"category"})

	DailyClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "daily_claims_total",
		Help:      "每日任务领取次数，按槽位区分。",
	}, []string{"slot"})

	Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "商店购买请求，按结果区分。",
	}, []string{"result"})

	// LockWait 记录等待全局账本锁的时长
	LockWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_lock_wait_seconds",
		Help:      "获取账本全局锁的等待时间。",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	StorageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_storage_failures_total",
		Help:      "账本持久化失败的次数。",
	})

	PolicyReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "economy_policy_reloads_total",
		Help:      "经济策略文件热重载次数，按结果区分。",
	}, []string{"result"})
)
