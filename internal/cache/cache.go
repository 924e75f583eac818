package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Response cache. Redis yoksa rdb nil kalır ve tüm fonksiyonlar no-op
// çalışır; doğruluk değişmez, sadece her istek veritabanına gider.

var rdb *redis.Client
var ctx = context.Background()

// Liste cache'lerinin TTL'i. Her yazma zaten ilgili koleksiyonun
// anahtarını komple siliyor, TTL sadece emniyet payı.
const ListTTL = 60 * time.Second

func Connect(addr string) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Redis'e bağlanılamadı (%s): %v; cache devre dışı", addr, err)
		return
	}
	rdb = client
	log.Printf("Redis bağlantısı başarılı: %s", addr)
}

func GetObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, exp).Err()
}

func Remove(keys ...string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, keys...).Result()
	return err
}
