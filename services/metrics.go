package services

import "github.com/prometheus/client_golang/prometheus"

var (
	historySaves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "history_saves_total",
		Help: "Consulting history save attempts by result.",
	}, []string{"result"})

	notificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_notifications_total",
		Help: "Admin notifications by channel and status.",
	}, []string{"channel", "status"})

	visualUploads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "visual_detail_images_uploaded_total",
		Help: "Images uploaded to object storage for visual details.",
	})
)

func init() {
	prometheus.MustRegister(historySaves, notificationsSent, visualUploads)
}
